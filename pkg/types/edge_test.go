package types

import (
	"errors"
	"testing"
)

func TestEdgeValidation(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{
			name:    "valid edge",
			edge:    Edge{SourceID: "chemical-spill-protocol", TargetID: "hazmat-suit", Type: EdgeTypeRequires, Weight: 0.9},
			wantErr: nil,
		},
		{
			name:    "weight of exactly one",
			edge:    Edge{SourceID: "a", TargetID: "b", Type: EdgeTypeRequires, Weight: 1.0},
			wantErr: nil,
		},
		{
			name:    "zero weight",
			edge:    Edge{SourceID: "a", TargetID: "b", Type: EdgeTypeRequires, Weight: 0},
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "negative weight",
			edge:    Edge{SourceID: "a", TargetID: "b", Type: EdgeTypeRequires, Weight: -0.5},
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "weight above one",
			edge:    Edge{SourceID: "a", TargetID: "b", Type: EdgeTypeRequires, Weight: 1.1},
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "missing source",
			edge:    Edge{TargetID: "b", Type: EdgeTypeRequires, Weight: 0.5},
			wantErr: ErrEmptyID,
		},
		{
			name:    "missing target",
			edge:    Edge{SourceID: "a", Type: EdgeTypeRequires, Weight: 0.5},
			wantErr: ErrEmptyID,
		},
		{
			name:    "missing type",
			edge:    Edge{SourceID: "a", TargetID: "b", Weight: 0.5},
			wantErr: ErrEmptyType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edge.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Edge.Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Edge.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeSelfLoop(t *testing.T) {
	loop := Edge{SourceID: "icu", TargetID: "icu", Type: EdgeTypeRelatedTo, Weight: 0.5}
	if !loop.IsSelfLoop() {
		t.Error("IsSelfLoop() = false for a self-loop")
	}
	if loop.Validate() != nil {
		t.Error("self-loops must validate; the traversal visited set guards them")
	}

	normal := Edge{SourceID: "icu", TargetID: "er", Type: EdgeTypeRelatedTo, Weight: 0.5}
	if normal.IsSelfLoop() {
		t.Error("IsSelfLoop() = true for a normal edge")
	}
}
