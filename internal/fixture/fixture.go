// Package fixture writes synthetic ParaVision scan directories for tests.
package fixture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Scan describes the method parameters of a synthetic acquisition.
type Scan struct {
	Repetitions int
	Averages    int
	Points      int
	Shift       int
	Channels    int
	Bandwidth   float64

	// EchoTime is in milliseconds, as stored by the scanner.
	EchoTime float64

	FrqRef      []float64
	Orientation []float64
	Position    []float64
	Size        []float64

	// Omit lists parameter names to leave out of the method file.
	Omit []string

	// Extra lines are appended before the end label.
	Extra []string
}

// DefaultScan returns a small single channel acquisition.
func DefaultScan() Scan {
	return Scan{
		Repetitions: 1,
		Averages:    1,
		Points:      8,
		Shift:       2,
		Channels:    1,
		Bandwidth:   5000,
		EchoTime:    30,
		FrqRef:      []float64{300.3, 300.3, 300.3, 300.3},
		Orientation: []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		Position:    []float64{0.5, -1.25, 2},
		Size:        []float64{2, 3, 4},
	}
}

// Words returns the number of 32-bit words the fid of s holds.
func (s Scan) Words() int {
	return s.Repetitions * s.Averages * s.Points * 2 * s.Channels
}

// Method renders the method file text.
func (s Scan) Method() string {
	omit := make(map[string]bool, len(s.Omit))
	for _, name := range s.Omit {
		omit[name] = true
	}

	var b strings.Builder
	b.WriteString("##TITLE=Parameter List, ParaVision 6.0.1\n")
	b.WriteString("##JCAMPDX=4.24\n")
	b.WriteString("##DATATYPE=Parameter Values\n")
	b.WriteString("$$ synthetic method file\n")
	b.WriteString("##$Method=<Bruker:PRESS>\n")

	scalar := func(name string, v float64) {
		if !omit[name] {
			fmt.Fprintf(&b, "##$%s=%s\n", name, format(v))
		}
	}
	array := func(name string, v []float64, shape ...int) {
		if omit[name] {
			return
		}
		dims := make([]string, len(shape))
		for i, n := range shape {
			dims[i] = strconv.Itoa(n)
		}
		fmt.Fprintf(&b, "##$%s=( %s )\n", name, strings.Join(dims, ", "))
		for i := 0; i < len(v); i += 3 {
			end := i + 3
			if end > len(v) {
				end = len(v)
			}
			parts := make([]string, 0, 3)
			for _, f := range v[i:end] {
				parts = append(parts, format(f))
			}
			b.WriteString(strings.Join(parts, " "))
			b.WriteString("\n")
		}
	}

	scalar("PVM_EchoTime", s.EchoTime)
	scalar("PVM_NRepetitions", float64(s.Repetitions))
	scalar("PVM_NAverages", float64(s.Averages))
	scalar("PVM_DigNp", float64(s.Points))
	scalar("PVM_DigSw", s.Bandwidth)
	scalar("PVM_DigShift", float64(s.Shift))
	scalar("PVM_EncNReceivers", float64(s.Channels))
	array("PVM_FrqRef", s.FrqRef, len(s.FrqRef))
	array("PVM_VoxArrGradOrient", s.Orientation, len(s.Orientation)/9, 3, 3)
	array("PVM_VoxArrPosition", s.Position, len(s.Position)/3, 3)
	array("PVM_VoxArrSize", s.Size, len(s.Size)/3, 3)

	for _, line := range s.Extra {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("$$ @vis= PVM_EchoTime\n")
	b.WriteString("##END=\n")

	return b.String()
}

// Write creates dir/method from s and dir/fid from words in little endian
// order.
func Write(dir string, s Scan, words []int32) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scan directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "method"), []byte(s.Method()), 0644); err != nil {
		return fmt.Errorf("failed to write method file: %w", err)
	}
	return WriteFID(dir, words, binary.LittleEndian)
}

// WriteFID writes dir/fid.
func WriteFID(dir string, words []int32, order binary.ByteOrder) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, order, words); err != nil {
		return fmt.Errorf("failed to encode fid words: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fid"), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write fid file: %w", err)
	}
	return nil
}

// Ramp returns the words 1..n, so complex sample k is (2k+1) + (2k+2)i.
func Ramp(n int) []int32 {
	words := make([]int32, n)
	for i := range words {
		words[i] = int32(i + 1)
	}
	return words
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
