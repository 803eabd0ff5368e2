package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/triago/pkg/types"
)

// SearchRecord is one search-audit row for Parquet storage.
type SearchRecord struct {
	ID              string    `parquet:"id"`
	Timestamp       time.Time `parquet:"timestamp"`
	RequestID       string    `parquet:"request_id"`
	Query           string    `parquet:"query"`
	Mode            string    `parquet:"mode"`
	ExactMatches    int       `parquet:"exact_matches"`
	SemanticMatches int       `parquet:"semantic_matches"`
	GraphMatches    int       `parquet:"graph_matches"`
	TotalMatches    int       `parquet:"total_matches"`
	NodesScanned    int       `parquet:"nodes_scanned"`
	EdgesScanned    int       `parquet:"edges_scanned"`
	SeedCount       int       `parquet:"seed_count"`
	DurationMs      int64     `parquet:"duration_ms"`
}

// SearchRecorder batches search audit rows into Parquet files. The HTTP
// layer feeds it; a nil recorder disables auditing.
type SearchRecorder struct {
	outputDir string
	mu        sync.Mutex
	buffer    []SearchRecord
	batchSize int
}

// NewSearchRecorder creates a SearchRecorder writing to outputDir.
func NewSearchRecorder(outputDir string) (*SearchRecorder, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	return &SearchRecorder{
		outputDir: outputDir,
		batchSize: 100,
		buffer:    make([]SearchRecord, 0, 100),
	}, nil
}

// Record appends one audit row. The id, timestamp, and request id are
// filled in when absent. A nil recorder is a no-op.
func (r *SearchRecorder) Record(ctx context.Context, rec SearchRecord) error {
	if r == nil {
		return nil
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.RequestID == "" {
		if v, ok := ctx.Value(types.ContextKeyRequestID).(string); ok {
			rec.RequestID = v
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, rec)

	if len(r.buffer) >= r.batchSize {
		return r.flush()
	}

	return nil
}

// Flush writes any buffered rows to disk.
func (r *SearchRecorder) Flush() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// Close flushes remaining rows. The recorder is unusable afterwards only
// by convention; there is no underlying handle to release.
func (r *SearchRecorder) Close() error {
	return r.Flush()
}

// flush writes the current buffer to a new Parquet file.
// Caller must hold the lock.
func (r *SearchRecorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	filename := fmt.Sprintf("search_audit_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, filename)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write search audit parquet file: %v\n", err)
		return err
	}

	r.buffer = r.buffer[:0]
	return nil
}
