package fid

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeWords writes words to a temporary fid file and returns its path.
func writeWords(t *testing.T, order binary.ByteOrder, words ...int32) string {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, order, words); err != nil {
		t.Fatalf("Failed to encode words: %v", err)
	}
	path := filepath.Join(t.TempDir(), "fid")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write fid file: %v", err)
	}
	return path
}

func TestReadExact(t *testing.T) {
	path := writeWords(t, binary.LittleEndian, 1, 2, 3, 4, -5, -6)

	result, err := Read(path, 6, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Mismatch != nil {
		t.Errorf("Expected no mismatch, got %v", result.Mismatch)
	}

	want := []complex128{complex(1, 2), complex(3, 4), complex(-5, -6)}
	if len(result.Samples) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(result.Samples))
	}
	for i := range want {
		if result.Samples[i] != want[i] {
			t.Errorf("Sample %d: expected %v, got %v", i, want[i], result.Samples[i])
		}
	}
}

func TestReadBigEndian(t *testing.T) {
	path := writeWords(t, binary.BigEndian, 7, -8)

	result, err := Read(path, 2, binary.BigEndian)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Samples[0] != complex(7, -8) {
		t.Errorf("Expected (7-8i), got %v", result.Samples[0])
	}
}

func TestReadLargerFileWarns(t *testing.T) {
	path := writeWords(t, binary.LittleEndian, 1, 2, 3, 4, 5, 6)

	result, err := Read(path, 4, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Mismatch == nil {
		t.Fatal("Expected size mismatch warning")
	}
	if result.Mismatch.Short() {
		t.Error("Expected mismatch to not be short")
	}
	if result.Read != 4 || len(result.Samples) != 2 {
		t.Errorf("Expected 4 words and 2 samples, got %d and %d", result.Read, len(result.Samples))
	}
}

func TestReadShortFile(t *testing.T) {
	path := writeWords(t, binary.LittleEndian, 1, 2, 3)

	result, err := Read(path, 8, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Mismatch == nil || !result.Mismatch.Short() {
		t.Fatalf("Expected short mismatch, got %v", result.Mismatch)
	}
	if result.Mismatch.Available != 3 || result.Mismatch.Expected != 8 {
		t.Errorf("Unexpected mismatch %+v", *result.Mismatch)
	}
	// The unpaired trailing word is dropped.
	if len(result.Samples) != 1 {
		t.Errorf("Expected 1 sample, got %d", len(result.Samples))
	}
}

func TestReadTrailingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fid")
	if err := os.WriteFile(path, []byte{1, 0, 0, 0, 2, 0, 0, 0, 9}, 0644); err != nil {
		t.Fatalf("Failed to write fid file: %v", err)
	}

	result, err := Read(path, 2, nil)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.Mismatch == nil || result.Mismatch.TrailingBytes != 1 {
		t.Fatalf("Expected 1 trailing byte reported, got %v", result.Mismatch)
	}
	if result.Samples[0] != complex(1, 2) {
		t.Errorf("Expected (1+2i), got %v", result.Samples[0])
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "fid"), 2, nil); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestReadFrom(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, []int32{1, 2, 3, 4})

	result, err := ReadFrom(&buf, 6, binary.LittleEndian)
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if result.Mismatch == nil || result.Mismatch.Available != 4 {
		t.Errorf("Expected short mismatch with 4 words, got %v", result.Mismatch)
	}
	if len(result.Samples) != 2 || result.Samples[1] != complex(3, 4) {
		t.Errorf("Unexpected samples %v", result.Samples)
	}
}
