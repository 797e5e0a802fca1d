package paravision

import (
	"fmt"
	"sort"
)

// Table maps parameter names to values. A Table is not modified after it is
// built; With returns an extended copy.
type Table struct {
	values map[string]Value
}

// NewTable builds a table from a map. The map is copied.
func NewTable(values map[string]Value) Table {
	t := Table{values: make(map[string]Value, len(values))}
	for k, v := range values {
		t.values[k] = v
	}
	return t
}

// Len returns the number of parameters.
func (t Table) Len() int {
	return len(t.values)
}

// Names returns the parameter names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the value stored under name.
func (t Table) Lookup(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Get returns the value stored under name or a *MissingParameterError.
func (t Table) Get(name string) (Value, error) {
	v, ok := t.values[name]
	if !ok {
		return Value{}, &MissingParameterError{Name: name}
	}
	return v, nil
}

// Float returns a scalar parameter. A single element array is accepted.
func (t Table) Float(name string) (float64, error) {
	v, err := t.Get(name)
	if err != nil {
		return 0, err
	}
	switch {
	case v.Kind == KindNumber:
		return v.Number, nil
	case v.Kind == KindArray && len(v.Data) == 1:
		return v.Data[0], nil
	}
	return 0, &KindError{Name: name, Want: "number", Got: v.Kind}
}

// Int returns a scalar parameter truncated toward zero.
func (t Table) Int(name string) (int, error) {
	f, err := t.Float(name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// Floats returns the elements of a numeric parameter in row-major order.
func (t Table) Floats(name string) ([]float64, error) {
	v, err := t.Get(name)
	if err != nil {
		return nil, err
	}
	data, ok := v.Floats()
	if !ok {
		return nil, &KindError{Name: name, Want: "numeric array", Got: v.Kind}
	}
	return data, nil
}

// First returns the first element of a numeric parameter.
func (t Table) First(name string) (float64, error) {
	data, err := t.Floats(name)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("parameter %s: %w", name, ErrEmpty)
	}
	return data[0], nil
}

// Text returns a text parameter. Numbers are formatted; arrays are
// rejected.
func (t Table) Text(name string) (string, error) {
	v, err := t.Get(name)
	if err != nil {
		return "", err
	}
	switch v.Kind {
	case KindText, KindDegraded:
		return v.Text, nil
	case KindNumber:
		return formatFloat(v.Number), nil
	}
	return "", &KindError{Name: name, Want: "text", Got: v.Kind}
}

// With returns a copy of the table with extra entries added. Entries in
// extra replace existing ones with the same name.
func (t Table) With(extra map[string]Value) Table {
	out := NewTable(t.values)
	for k, v := range extra {
		out.values[k] = v
	}
	return out
}

// MarshalYAML encodes the table as a mapping.
func (t Table) MarshalYAML() (interface{}, error) {
	return t.values, nil
}

// MarshalJSON encodes the table as an object.
func (t Table) MarshalJSON() ([]byte, error) {
	return encodeJSON(t.values)
}
