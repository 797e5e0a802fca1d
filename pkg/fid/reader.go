// Package fid reads raw ParaVision "fid" files: interleaved real and
// imaginary 32-bit signed integers.
package fid

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// WordSize is the size in bytes of one stored sample word.
const WordSize = 4

// SizeMismatch describes a fid file whose length disagrees with the number
// of words the acquisition parameters call for. It is a warning: the read
// still proceeds.
type SizeMismatch struct {
	// Expected is the number of 32-bit words requested.
	Expected int

	// Available is the number of whole 32-bit words in the file.
	Available int

	// TrailingBytes is the number of bytes after the last whole word.
	TrailingBytes int
}

func (m SizeMismatch) String() string {
	if m.TrailingBytes != 0 {
		return fmt.Sprintf("expected %d words but file holds %d words and %d trailing bytes",
			m.Expected, m.Available, m.TrailingBytes)
	}
	return fmt.Sprintf("expected %d words but file holds %d", m.Expected, m.Available)
}

// Short reports whether the file holds fewer words than requested.
func (m SizeMismatch) Short() bool {
	return m.Available < m.Expected
}

// Result holds the samples read from a fid file.
type Result struct {
	// Samples are the complex samples folded from word pairs.
	Samples []complex128

	// Expected is the number of words requested.
	Expected int

	// Read is the number of words actually read.
	Read int

	// Mismatch is set when the file size disagrees with Expected.
	Mismatch *SizeMismatch
}

// Read reads count 32-bit words from the file at path and folds adjacent
// pairs into complex samples (real at 2k, imaginary at 2k+1). If the file is
// shorter than requested the available words are returned and
// Result.Mismatch is set; a trailing unpaired word is dropped.
func Read(path string, count int, order binary.ByteOrder) (*Result, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid word count %d", count)
	}
	if order == nil {
		order = binary.LittleEndian
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fid file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat fid file: %w", err)
	}

	size := info.Size()
	available := int(size / WordSize)
	result := &Result{Expected: count}
	if available != count || size%WordSize != 0 {
		result.Mismatch = &SizeMismatch{
			Expected:      count,
			Available:     available,
			TrailingBytes: int(size % WordSize),
		}
	}

	n := count
	if available < n {
		n = available
	}

	read, err := ReadFrom(f, n, order)
	if err != nil {
		return nil, err
	}
	result.Read = read.Read
	result.Samples = read.Samples

	return result, nil
}

// ReadFrom reads count words from r. Unlike Read it cannot inspect the total
// size, so a short stream is reported through Result.Mismatch only when it
// ends early.
func ReadFrom(r io.Reader, count int, order binary.ByteOrder) (*Result, error) {
	if order == nil {
		order = binary.LittleEndian
	}

	words, err := readWords(r, count, order)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read fid samples: %w", err)
	}

	result := &Result{Expected: count, Read: len(words), Samples: Fold(words)}
	if len(words) < count {
		result.Mismatch = &SizeMismatch{Expected: count, Available: len(words)}
	}
	return result, nil
}

// readWords reads up to n words. On a short stream it returns the words that
// were complete together with io.ErrUnexpectedEOF or io.EOF.
func readWords(r io.Reader, n int, order binary.ByteOrder) ([]int32, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	words := make([]int32, 0, n)
	var buf [WordSize]byte

	for len(words) < n {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return words, err
		}
		words = append(words, int32(order.Uint32(buf[:])))
	}
	return words, nil
}

// Fold pairs interleaved real and imaginary words into complex samples.
func Fold(words []int32) []complex128 {
	samples := make([]complex128, len(words)/2)
	for k := range samples {
		samples[k] = complex(float64(words[2*k]), float64(words[2*k+1]))
	}
	return samples
}
