package export

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"brukerfid/internal/fixture"
	"brukerfid/pkg/series"
)

func readFixtureSeries(t *testing.T) *series.Series {
	t.Helper()
	scan := fixture.DefaultScan()
	scan.Channels = 2
	dir := filepath.Join(t.TempDir(), "scan")
	if err := fixture.Write(dir, scan, fixture.Ramp(scan.Words())); err != nil {
		t.Fatalf("Failed to write scan: %v", err)
	}
	s, err := series.ReadSeries(dir)
	if err != nil {
		t.Fatalf("ReadSeries failed: %v", err)
	}
	return s
}

func TestRawRoundTrip(t *testing.T) {
	s := readFixtureSeries(t)
	path := filepath.Join(t.TempDir(), "series.raw")

	if err := WriteRaw(path, s.Data); err != nil {
		t.Fatalf("WriteRaw failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	wantSize := int64(len(Magic) + 2 + 12 + 8*s.Data.Len())
	if info.Size() != wantSize {
		t.Errorf("Expected %d bytes, got %d", wantSize, info.Size())
	}

	back, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if back.Shape() != s.Data.Shape() {
		t.Fatalf("Expected shape %v, got %v", s.Data.Shape(), back.Shape())
	}
	if back.At(3, 1, 0) != s.Data.At(3, 1, 0) {
		t.Errorf("Expected %v, got %v", s.Data.At(3, 1, 0), back.At(3, 1, 0))
	}
}

func TestReadRawRejectsOtherFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.raw")
	if err := os.WriteFile(path, []byte("NOPE0000"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := ReadRaw(path); err == nil {
		t.Error("Expected error for file without magic")
	}
}

func TestReadRawRejectsOversizedHeader(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	binary.Write(&buf, binary.LittleEndian, FormatVersion)
	binary.Write(&buf, binary.LittleEndian, [3]uint32{1 << 31, 1 << 31, 4})
	buf.Write(make([]byte, 16))

	path := filepath.Join(t.TempDir(), "forged.raw")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := ReadRaw(path); err == nil {
		t.Error("Expected error for a shape larger than the file")
	}
}

func TestWriteSidecarYAML(t *testing.T) {
	s := readFixtureSeries(t)
	path := filepath.Join(t.TempDir(), "series.yaml")

	if err := WriteSidecar(path, s, "yaml"); err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read sidecar: %v", err)
	}
	var doc struct {
		Shape      []int                  `yaml:"shape"`
		DwellTime  float64                `yaml:"dwell_time"`
		Affine     [][]float64            `yaml:"affine"`
		Advisories []string               `yaml:"advisories"`
		Header     map[string]interface{} `yaml:"header"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to decode sidecar: %v", err)
	}

	if len(doc.Shape) != 3 || doc.Shape[0] != 6 || doc.Shape[1] != 2 {
		t.Errorf("Unexpected shape %v", doc.Shape)
	}
	if doc.DwellTime != 0.0002 {
		t.Errorf("Expected dwell time 0.0002, got %v", doc.DwellTime)
	}
	if len(doc.Affine) != 4 || doc.Affine[3][3] != 1 {
		t.Errorf("Unexpected affine %v", doc.Affine)
	}
	if len(doc.Advisories) == 0 || doc.Advisories[0] != "unverified-orientation" {
		t.Errorf("Expected orientation advisory, got %v", doc.Advisories)
	}
	if doc.Header["Method"] != "<Bruker:PRESS>" {
		t.Errorf("Expected Method in header, got %v", doc.Header["Method"])
	}
}

func TestWriteSidecarJSON(t *testing.T) {
	s := readFixtureSeries(t)
	path := filepath.Join(t.TempDir(), "series.json")

	if err := WriteSidecar(path, s, "json"); err != nil {
		t.Fatalf("WriteSidecar failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read sidecar: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to decode sidecar: %v", err)
	}
	header, ok := doc["header"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected header object, got %T", doc["header"])
	}
	if header["Dwelltime"] != 0.0002 {
		t.Errorf("Expected Dwelltime 0.0002, got %v", header["Dwelltime"])
	}
	if header["Method"] != "<Bruker:PRESS>" {
		t.Errorf("Expected Method <Bruker:PRESS>, got %v", header["Method"])
	}
	if bytes.Contains(data, []byte(`\u003c`)) {
		t.Errorf("Expected angle brackets to be written verbatim:\n%s", data)
	}
}

func TestMarshalSidecarUnknownFormat(t *testing.T) {
	if _, err := MarshalSidecar(struct{}{}, "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
