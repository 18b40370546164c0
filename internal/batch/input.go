package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/bmicount/internal/ir"
)

// Input is a sealed interface for the two forms a batch can arrive in.
// Only Structured and Serialized implement this.
type Input interface {
	input() // Sealed
}

// Structured is a batch already decoded into records.
type Structured []ir.Record

func (Structured) input() {}

// Serialized is a batch in text form.
type Serialized struct {
	Text   string
	Format Format
}

func (Serialized) input() {}

// JSON returns a Serialized input in JSON format.
func JSON(text string) Serialized {
	return Serialized{Text: text, Format: FormatJSON}
}

// YAML returns a Serialized input in YAML format.
func YAML(text string) Serialized {
	return Serialized{Text: text, Format: FormatYAML}
}

// Format identifies a text encoding. The zero value is JSON.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown input format %q: must be one of json, yaml", s)
	}
}

// FormatForPath picks a Format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode resolves an Input to records. Structured input is returned as is;
// Serialized input is parsed, and any failure is a DECODE_ERROR.
func Decode(in Input) ([]ir.Record, error) {
	switch v := in.(type) {
	case Structured:
		return []ir.Record(v), nil
	case Serialized:
		switch v.Format {
		case FormatJSON:
			return ir.RecordsFromJSON([]byte(v.Text))
		case FormatYAML:
			return ir.RecordsFromYAML([]byte(v.Text))
		default:
			return nil, ir.NewDecodeError(fmt.Sprintf("unsupported input format %s", v.Format), nil)
		}
	case nil:
		return nil, ir.NewDecodeError("no input", nil)
	default:
		return nil, ir.NewDecodeError(fmt.Sprintf("unknown Input type: %T", in), nil)
	}
}
