// Package paravision parses ParaVision "method" parameter files into a typed
// parameter table.
//
// A method file is a JCAMP-DX flavoured text file. Each parameter is declared
// on a line starting with "##$" and is either a scalar, a string, an inline
// parenthesised value, or an array whose size is declared in parentheses and
// whose elements follow on the next lines.
package paravision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	// KindNumber is a scalar floating point value.
	KindNumber Kind = iota

	// KindText is a literal string value.
	KindText

	// KindArray is a numeric array with an explicit shape.
	KindArray

	// KindDegraded is a sized array whose tokens did not match the declared
	// size. The raw text and the declared shape are retained.
	KindDegraded
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	case KindDegraded:
		return "degraded"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single parsed parameter value.
type Value struct {
	Kind Kind

	// Number holds the value of a KindNumber.
	Number float64

	// Text holds the value of a KindText, or the raw unparsed text of a
	// KindDegraded.
	Text string

	// Data holds the elements of a KindArray in row-major order.
	Data []float64

	// Shape is the declared size of a KindArray or KindDegraded.
	Shape []int
}

// Number returns a scalar value.
func Number(v float64) Value {
	return Value{Kind: KindNumber, Number: v}
}

// Text returns a string value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Array returns an array value. The product of shape must equal len(data).
func Array(data []float64, shape ...int) Value {
	return Value{Kind: KindArray, Data: data, Shape: shape}
}

// Degraded returns a value for a sized array that could not be reshaped.
func Degraded(raw string, shape ...int) Value {
	return Value{Kind: KindDegraded, Text: raw, Shape: shape}
}

// Floats returns the numeric content of the value as a flat slice. A number
// yields a single element slice.
func (v Value) Floats() ([]float64, bool) {
	switch v.Kind {
	case KindNumber:
		return []float64{v.Number}, true
	case KindArray:
		out := make([]float64, len(v.Data))
		copy(out, v.Data)
		return out, true
	default:
		return nil, false
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formatFloat(v.Number)
	case KindArray:
		parts := make([]string, len(v.Data))
		for i, f := range v.Data {
			parts[i] = formatFloat(f)
		}
		return fmt.Sprintf("%v[%s]", v.Shape, strings.Join(parts, " "))
	default:
		return v.Text
	}
}

// nested converts the value into plain Go values suitable for encoders:
// float64, string, or nested []interface{} following Shape.
func (v Value) nested() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindArray:
		if !shapeFits(v.Shape, len(v.Data)) {
			return v.Data
		}
		out, _ := nest(v.Data, v.Shape)
		return out
	default:
		return v.Text
	}
}

// shapeFits reports whether shape describes exactly n elements.
func shapeFits(shape []int, n int) bool {
	if len(shape) == 0 {
		return false
	}
	want := 1
	for _, d := range shape {
		if d < 0 || (d > 0 && want > n/d) {
			return false
		}
		want *= d
	}
	return want == n
}

func nest(data []float64, shape []int) (interface{}, []float64) {
	if len(shape) == 1 {
		row := make([]float64, shape[0])
		copy(row, data[:shape[0]])
		return row, data[shape[0]:]
	}
	out := make([]interface{}, shape[0])
	for i := range out {
		out[i], data = nest(data, shape[1:])
	}
	return out, data
}

// MarshalYAML encodes the value as a number, a string, or a nested sequence.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.nested(), nil
}

// MarshalJSON encodes the value as a number, a string, or a nested array.
func (v Value) MarshalJSON() ([]byte, error) {
	return encodeJSON(v.nested())
}

// encodeJSON is json.Marshal without HTML escaping, so "<Bruker:PRESS>"
// style strings survive as written.
func encodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

var _ yaml.Marshaler = Value{}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
