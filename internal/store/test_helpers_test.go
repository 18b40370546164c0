package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/bmicount/internal/batch"
	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sampleRecords returns the six-record sample batch.
func sampleRecords() []ir.Record {
	return []ir.Record{
		ir.NewRecord(171, 96, ir.P("Gender", ir.Text("Male"))),
		ir.NewRecord(161, 85, ir.P("Gender", ir.Text("Male"))),
		ir.NewRecord(180, 77, ir.P("Gender", ir.Text("Male"))),
		ir.NewRecord(166, 62, ir.P("Gender", ir.Text("Female"))),
		ir.NewRecord(150, 70, ir.P("Gender", ir.Text("Female"))),
		ir.NewRecord(167, 82, ir.P("Gender", ir.Text("Female"))),
	}
}

// createTestRun aggregates the sample batch into a Run with the given ID.
func createTestRun(t *testing.T, id string) Run {
	t.Helper()
	res, err := batch.AggregateWithin(batch.Structured(sampleRecords()), bmi.DefaultBounds)
	if err != nil {
		t.Fatalf("AggregateWithin() failed: %v", err)
	}
	run, err := RunFromResult(id, res)
	if err != nil {
		t.Fatalf("RunFromResult() failed: %v", err)
	}
	return run
}
