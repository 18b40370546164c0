package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bmicount/internal/batch"
	"github.com/roach88/bmicount/internal/bmi"
	"github.com/roach88/bmicount/internal/ir"
)

// Scenario defines one batch to count and what the count must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Records is the batch in structured form.
	Records []map[string]any `yaml:"records,omitempty"`

	// Input is the batch as serialized text, decoded according to Format.
	Input string `yaml:"input,omitempty"`

	// Format names the decoder for Input: "json" (default) or "yaml".
	Format string `yaml:"format,omitempty"`

	// Bounds overrides the default inclusive range.
	Bounds *bmi.Bounds `yaml:"bounds,omitempty"`

	// Expect holds the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected outcome of a scenario.
// Only the fields that are set are checked.
type Expect struct {
	Count  *int      `yaml:"count,omitempty"`
	Total  *int      `yaml:"total,omitempty"`
	Values []float64 `yaml:"values,omitempty"`

	// Error is the expected error code. When set, the batch must fail.
	Error string `yaml:"error,omitempty"`

	// Record is the index of the record the error must be attributed to.
	Record *int `yaml:"record,omitempty"`
}

// knownErrorCodes lists the codes an Expect.Error may name.
var knownErrorCodes = map[ir.ErrorCode]bool{
	ir.ErrCodeDatatypeMismatch: true,
	ir.ErrCodeDecode:           true,
	ir.ErrCodeMissingField:     true,
	ir.ErrCodeZeroHeight:       true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "expects:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasRecords, hasInput := s.Records != nil, s.Input != ""
	switch {
	case hasRecords && hasInput:
		return fmt.Errorf("records and input are mutually exclusive")
	case !hasRecords && !hasInput:
		return fmt.Errorf("one of records or input is required")
	}

	if s.Format != "" {
		if hasRecords {
			return fmt.Errorf("format only applies to input")
		}
		if _, err := batch.ParseFormat(s.Format); err != nil {
			return err
		}
	}

	if s.Bounds != nil && s.Bounds.Upper < s.Bounds.Lower {
		return fmt.Errorf("bounds: upper %v is below lower %v", s.Bounds.Upper, s.Bounds.Lower)
	}

	return validateExpect(&s.Expect)
}

func validateExpect(e *Expect) error {
	if e.Error == "" {
		if e.Record != nil {
			return fmt.Errorf("expect.record requires expect.error")
		}
		if e.Count == nil && e.Total == nil && e.Values == nil {
			return fmt.Errorf("expect must set at least one of count, total, values or error")
		}
		return nil
	}

	if !knownErrorCodes[ir.ErrorCode(e.Error)] {
		return fmt.Errorf("expect.error: unknown error code %q", e.Error)
	}
	if e.Count != nil || e.Total != nil || e.Values != nil {
		return fmt.Errorf("expect.error excludes count, total and values")
	}
	return nil
}

// input builds the batch input the scenario describes.
func (s *Scenario) input() (batch.Input, error) {
	if s.Records == nil {
		format := batch.FormatJSON
		if s.Format != "" {
			var err error
			if format, err = batch.ParseFormat(s.Format); err != nil {
				return nil, err
			}
		}
		return batch.Serialized{Text: s.Input, Format: format}, nil
	}

	raw := make([]any, len(s.Records))
	for i, rec := range s.Records {
		raw[i] = rec
	}
	records, err := ir.RecordsFromAny(raw)
	if err != nil {
		return nil, err
	}
	return batch.Structured(records), nil
}

// bounds returns the scenario's bounds or the defaults.
func (s *Scenario) bounds() bmi.Bounds {
	if s.Bounds == nil {
		return bmi.DefaultBounds
	}
	return *s.Bounds
}
