package store

import (
	"fmt"

	"github.com/roach88/bmicount/internal/ir"
)

// marshalRecords converts records to canonical JSON TEXT for storage.
func marshalRecords(records []ir.Record) (string, error) {
	data, err := ir.MarshalCanonical(records)
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}
	return string(data), nil
}

// unmarshalRecords parses records stored by marshalRecords.
func unmarshalRecords(data string) ([]ir.Record, error) {
	records, err := ir.RecordsFromJSON([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	return records, nil
}
