package search

import (
	"fmt"
	"strings"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

// Scorer produces deterministic relevance scores in [0, 1] for query text
// against a node. The score is a weighted blend of token overlap, substring
// containment, and a small bonus when the query names the node's type.
//
// Scoring is pure string computation. No embeddings, no model calls, no
// randomness: the same query and node always produce the same score.
type Scorer struct {
	typeKeywords map[string][]types.NodeType
}

// NewScorer returns a Scorer with the default type keyword table.
func NewScorer() *Scorer {
	return &Scorer{typeKeywords: defaultTypeKeywords()}
}

// defaultTypeKeywords maps query vocabulary to the node types it implies.
// A query containing "medication" should rank supply nodes a little higher,
// "team" should favor staff roles, and so on. Some words imply more than
// one type: "vendor" raises both supplies and equipment, since either may
// carry supplier relationships.
func defaultTypeKeywords() map[string][]types.NodeType {
	return map[string][]types.NodeType{
		"protocol":   {types.NodeTypeProtocol},
		"protocols":  {types.NodeTypeProtocol},
		"procedure":  {types.NodeTypeProtocol},
		"procedures": {types.NodeTypeProtocol},
		"plan":       {types.NodeTypeProtocol},
		"supply":     {types.NodeTypeSupply},
		"supplies":   {types.NodeTypeSupply},
		"medication": {types.NodeTypeSupply},
		"drug":       {types.NodeTypeSupply},
		"drugs":      {types.NodeTypeSupply},
		"dose":       {types.NodeTypeSupply},
		"vendor":     {types.NodeTypeSupply, types.NodeTypeEquipment},
		"supplier":   {types.NodeTypeSupply, types.NodeTypeEquipment},
		"equipment":  {types.NodeTypeEquipment},
		"device":     {types.NodeTypeEquipment},
		"devices":    {types.NodeTypeEquipment},
		"staff":      {types.NodeTypeStaffRole},
		"team":       {types.NodeTypeStaffRole},
		"teams":      {types.NodeTypeStaffRole},
		"nurse":      {types.NodeTypeStaffRole},
		"nurses":     {types.NodeTypeStaffRole},
		"doctor":     {types.NodeTypeStaffRole},
		"doctors":    {types.NodeTypeStaffRole},
		"role":       {types.NodeTypeStaffRole},
		"department": {types.NodeTypeDepartment},
		"unit":       {types.NodeTypeDepartment},
		"ward":       {types.NodeTypeDepartment},
		"condition":  {types.NodeTypeCondition},
		"conditions": {types.NodeTypeCondition},
		"injury":     {types.NodeTypeCondition},
		"injuries":   {types.NodeTypeCondition},
		"symptom":    {types.NodeTypeCondition},
		"symptoms":   {types.NodeTypeCondition},
		"hospital":   {types.NodeTypeHospital},
		"hospitals":  {types.NodeTypeHospital},
	}
}

// Score returns the relevance of queryText to node in [0, 1].
//
// Nodes flagged ExactMatchRequired always score zero. They are reachable
// only through the exact index, never through fuzzy relevance.
func (s *Scorer) Score(queryText string, node *types.Node) float64 {
	score, _, _ := s.components(queryText, node)
	return score
}

// Explain returns the score along with a short human-readable account of
// how it was produced, suitable for the explanation field of a result.
func (s *Scorer) Explain(queryText string, node *types.Node) (float64, string) {
	score, matched, total := s.components(queryText, node)
	if score == 0 {
		return 0, ""
	}
	return score, fmt.Sprintf("matched %d/%d query tokens against %q (relevance %.2f)", matched, total, node.Name, score)
}

func (s *Scorer) components(queryText string, node *types.Node) (score float64, matched, total int) {
	if node == nil || node.ExactMatchRequired {
		return 0, 0, 0
	}
	queryTokens := store.Tokenize(queryText)
	if len(queryTokens) == 0 {
		return 0, 0, 0
	}

	nodeTokens := s.nodeTokenSet(node)
	for _, token := range queryTokens {
		if nodeTokens[token] {
			matched++
		}
	}
	overlap := float64(matched) / float64(len(queryTokens))

	containment := 0.0
	if s.contains(queryText, node) {
		containment = 1.0
	}

	typeBonus := 0.0
	if s.impliesType(queryTokens, node.Type) {
		typeBonus = 1.0
	}

	score = TokenOverlapWeight*overlap + ContainmentWeight*containment + TypeBonusWeight*typeBonus
	if score > 1.0 {
		score = 1.0
	}
	return score, matched, len(queryTokens)
}

// nodeTokenSet collects the tokens of the node's name, aliases, and
// description into a set.
func (s *Scorer) nodeTokenSet(node *types.Node) map[string]bool {
	set := make(map[string]bool)
	for _, token := range store.Tokenize(node.Name) {
		set[token] = true
	}
	for _, alias := range node.Aliases {
		for _, token := range store.Tokenize(alias) {
			set[token] = true
		}
	}
	if desc := node.Description(); desc != "" {
		for _, token := range store.Tokenize(desc) {
			set[token] = true
		}
	}
	return set
}

// contains reports whether the normalized query is a substring of the
// normalized name or any alias, or vice versa.
func (s *Scorer) contains(queryText string, node *types.Node) bool {
	query := store.NormalizeTerm(queryText)
	if query == "" {
		return false
	}
	candidates := make([]string, 0, 1+len(node.Aliases))
	candidates = append(candidates, node.Name)
	candidates = append(candidates, node.Aliases...)
	for _, candidate := range candidates {
		name := store.NormalizeTerm(candidate)
		if name == "" {
			continue
		}
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return true
		}
	}
	return false
}

// impliesType reports whether any query token names the given node type.
func (s *Scorer) impliesType(queryTokens []string, nodeType types.NodeType) bool {
	for _, token := range queryTokens {
		for _, implied := range s.typeKeywords[token] {
			if implied == nodeType {
				return true
			}
		}
	}
	return false
}
