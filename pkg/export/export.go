// Package export writes an assembled series to disk as a raw complex64 dump
// and a YAML or JSON sidecar describing it.
package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"brukerfid/pkg/geometry"
	"brukerfid/pkg/paravision"
	"brukerfid/pkg/series"
)

// Magic identifies a raw dump.
const Magic = "BFID"

// FormatVersion is the version written in the raw header.
const FormatVersion uint16 = 1

const (
	headerSize = int64(len(Magic)) + 2 + 3*4
	sampleSize = 8
)

// Sidecar describes a dump.
type Sidecar struct {
	Shape      [3]int              `yaml:"shape" json:"shape"`
	AxisOrder  [3]string           `yaml:"axis_order" json:"axis_order"`
	DwellTime  float64             `yaml:"dwell_time" json:"dwell_time"`
	Affine     [4][4]float64       `yaml:"affine" json:"affine"`
	Advisories []geometry.Advisory `yaml:"advisories,omitempty" json:"advisories,omitempty"`
	Warnings   []string            `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Header     paravision.Table    `yaml:"header" json:"header"`
}

// NewSidecar builds the sidecar document for s.
func NewSidecar(s *series.Series) Sidecar {
	sc := Sidecar{
		Shape:      s.Data.Shape(),
		AxisOrder:  [3]string{"point", "channel", "acquisition"},
		DwellTime:  s.DwellTime,
		Affine:     s.Affine.Rows(),
		Advisories: s.Advisories,
		Header:     s.Header,
	}
	for _, w := range s.Warnings {
		sc.Warnings = append(sc.Warnings, w.String())
	}
	return sc
}

// WriteRaw writes the samples of s as little endian float32 pairs, points
// fastest, after a header of the magic, the format version and the three
// dimensions as uint32.
func WriteRaw(filename string, s *series.ComplexSeries) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := writeHeader(w, s.Shape()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	var buf [8]byte
	for _, v := range s.Data() {
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(real(v))))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(imag(v))))
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return file.Close()
}

func writeHeader(w *bufio.Writer, shape [3]int) error {
	if _, err := w.WriteString(Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}
	for _, n := range shape {
		if err := binary.Write(w, binary.LittleEndian, uint32(n)); err != nil {
			return err
		}
	}
	return nil
}

// ReadRaw reads a dump written by WriteRaw.
func ReadRaw(filename string) (*series.ComplexSeries, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	r := bufio.NewReader(file)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != Magic {
		return nil, fmt.Errorf("not a raw series dump")
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", version)
	}

	var shape [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &shape); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// The shape must fit in the bytes that follow the header.
	available := (info.Size() - headerSize) / sampleSize
	n := int64(1)
	for _, d := range shape {
		if d != 0 && n > available/int64(d) {
			return nil, fmt.Errorf("shape %v exceeds file size %d", shape, info.Size())
		}
		n *= int64(d)
	}

	words := make([]float32, 2*n)
	if err := binary.Read(r, binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	data := make([]complex128, n)
	for i := range data {
		data[i] = complex(float64(words[2*i]), float64(words[2*i+1]))
	}
	return series.NewComplexSeries(data, int(shape[0]), int(shape[1]), int(shape[2]))
}

// WriteSidecar writes the sidecar of s in the given format ("yaml" or
// "json").
func WriteSidecar(filename string, s *series.Series, format string) error {
	data, err := MarshalSidecar(NewSidecar(s), format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	return nil
}

// MarshalSidecar encodes v as YAML or JSON.
func MarshalSidecar(v interface{}, format string) ([]byte, error) {
	switch format {
	case "yaml", "yml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sidecar: %w", err)
		}
		return data, nil
	case "json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to marshal sidecar: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (must be yaml or json)", format)
	}
}
