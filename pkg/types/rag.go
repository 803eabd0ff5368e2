package types

// Relationship is one edge in the structured relationship list handed to the
// text-generation collaborator.
type Relationship struct {
	SourceID   string   `json:"sourceId"`
	SourceName string   `json:"sourceName"`
	TargetID   string   `json:"targetId"`
	TargetName string   `json:"targetName"`
	Type       EdgeType `json:"type"`
	Weight     float64  `json:"weight"`
}

// KnowledgeItem is one retrieved node in structured form.
type KnowledgeItem struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Type       NodeType               `json:"type"`
	Score      float64                `json:"score"`
	MatchType  MatchType              `json:"matchType"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// RAGContext is the assembled retrieval context for downstream generation.
// The assembler itself performs no generation; this output is always returned
// even when a later consumer fails.
type RAGContext struct {
	// Query echoes the free-text input.
	Query string `json:"query"`
	// ContextString is a bounded text block, one "Name: key properties" line
	// per retrieved node, in descending score order.
	ContextString string `json:"contextString"`
	// Relationships lists the edges connecting the retrieved nodes.
	Relationships []Relationship `json:"relationships"`
	// Knowledge lists the retrieved nodes in structured form.
	Knowledge []KnowledgeItem `json:"knowledge"`
	// Confidence reflects how strongly the retrieval supports an answer:
	// high when several high-scoring results agree, low when results are
	// sparse or weak.
	Confidence float64 `json:"confidence"`
}

// RAGAnswer pairs a generated answer with the context that grounded it.
// On generation failure Answer is empty and Context still carries the
// assembled retrieval output.
type RAGAnswer struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer,omitempty"`
	Model    string      `json:"model,omitempty"`
	Context  *RAGContext `json:"context"`
}
