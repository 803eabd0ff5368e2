package search

import (
	"testing"

	"github.com/soundprediction/triago/pkg/store"
	"github.com/soundprediction/triago/pkg/types"
)

func TestExactIndexLookup(t *testing.T) {
	index := NewExactIndex(newHospitalStore(t))

	tests := []struct {
		name   string
		term   string
		wantID string
		wantOK bool
	}{
		{"canonical name", "Epinephrine 1:10000", "epinephrine-1-10000", true},
		{"case and punctuation", "EPINEPHRINE 1:10,000!", "epinephrine-1-10000", true},
		{"alias", "epi 1:10000", "epinephrine-1-10000", true},
		{"other dilution", "Epinephrine 1:1000", "epinephrine-1-1000", true},
		{"collapsed whitespace", "  HAZMAT    suit  ", "hazmat-suit", true},
		{"short alias", "tox", "toxicology", true},
		{"partial name misses", "epinephrine", "", false},
		{"empty term", "", "", false},
		{"whitespace term", "   ", "", false},
		{"unknown term", "ventilator", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := index.Lookup(tt.term)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.term, ok, tt.wantOK)
			}
			if ok && node.ID != tt.wantID {
				t.Errorf("Lookup(%q) = %s, want %s", tt.term, node.ID, tt.wantID)
			}
		})
	}
}

func TestExactIndexKeepsDilutionsApart(t *testing.T) {
	index := NewExactIndex(newHospitalStore(t))

	tenThousand, ok := index.Lookup("epinephrine 1:10000")
	if !ok {
		t.Fatal("1:10000 lookup failed")
	}
	oneThousand, ok := index.Lookup("epinephrine 1:1000")
	if !ok {
		t.Fatal("1:1000 lookup failed")
	}
	if tenThousand.ID == oneThousand.ID {
		t.Fatal("the two dilutions resolved to the same node")
	}
	if amb := index.Ambiguities(); len(amb) != 0 {
		t.Errorf("fixture should have no ambiguous terms, got %v", amb)
	}
}

func TestExactIndexFirstRegistrationWins(t *testing.T) {
	st, err := store.NewStore([]*types.Node{
		{ID: "saline-a", Name: "Saline Bag", Type: types.NodeTypeSupply},
		{ID: "saline-b", Name: "saline bag", Type: types.NodeTypeSupply},
	}, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	index := NewExactIndex(st)

	node, ok := index.Lookup("SALINE BAG")
	if !ok {
		t.Fatal("lookup failed")
	}
	if node.ID != "saline-a" {
		t.Errorf("expected the first registration to win, got %s", node.ID)
	}
	amb := index.Ambiguities()
	if len(amb) != 1 || amb[0] != "saline bag" {
		t.Errorf("expected ambiguity [saline bag], got %v", amb)
	}
}

func TestExactIndexAliasSharedWithOwnName(t *testing.T) {
	// A node listing its own name as an alias is not a conflict.
	st, err := store.NewStore([]*types.Node{
		{ID: "burn-kit", Name: "Burn Kit", Type: types.NodeTypeSupply, Aliases: []string{"burn kit", "BK-1"}},
	}, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	index := NewExactIndex(st)
	if amb := index.Ambiguities(); len(amb) != 0 {
		t.Errorf("self-alias flagged as ambiguous: %v", amb)
	}
	if node, ok := index.Lookup("bk-1"); !ok || node.ID != "burn-kit" {
		t.Errorf("alias lookup failed: %v %v", node, ok)
	}
}

func TestExactIndexLen(t *testing.T) {
	index := NewExactIndex(newHospitalStore(t))
	// 9 names plus 5 aliases, no overlap.
	if index.Len() != 14 {
		t.Errorf("expected 14 terms, got %d", index.Len())
	}
}
