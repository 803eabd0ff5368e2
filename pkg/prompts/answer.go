// Package prompts builds the chat messages sent to the language-model
// collaborator and declares the structured response models it must return.
// Prompt text never influences retrieval; the engine's output is assembled
// before any of these messages are sent.
package prompts

import (
	"fmt"

	"github.com/soundprediction/triago/pkg/nlp"
	"github.com/soundprediction/triago/pkg/types"
)

const answerSystemPrompt = `You are triago, an emergency operations assistant for a hospital.
You help administrators and clinical staff during crisis situations.

Answer using ONLY the knowledge-graph context provided with each question.
If the context does not contain the answer, say that the knowledge base has
no information on the topic instead of guessing.

Be concise, professional, and prioritize patient safety in all recommendations.`

// Answer builds the messages for a free-text answer grounded in an
// assembled knowledge-graph context.
func Answer(question, contextString string) []types.Message {
	userPrompt := fmt.Sprintf(`KNOWLEDGE-GRAPH CONTEXT:
%s

QUESTION:
%s`, contextString, question)

	return []types.Message{
		nlp.NewSystemMessage(answerSystemPrompt),
		nlp.NewUserMessage(userPrompt),
	}
}
