package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestDeriveIdentityOrientation(t *testing.T) {
	orientation := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	position := []float64{0.5, -1.25, 2}
	size := []float64{2, 3, 4}

	affine, advisories, err := Derive(orientation, position, size)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	want := [4][4]float64{
		{2, 0, 0, 0.5},
		{0, 4, 0, 2},
		{0, 0, 3, -1.25},
		{0, 0, 0, 1},
	}
	if got := affine.Rows(); got != want {
		t.Errorf("Expected affine %v, got %v", want, got)
	}

	if len(advisories) != 1 || advisories[0] != AdvisoryUnverifiedOrientation {
		t.Errorf("Expected only the unverified orientation advisory, got %v", advisories)
	}
}

func TestDeriveScalesColumns(t *testing.T) {
	// Each column j is scaled by size[[0,2,1][j]].
	orientation := []float64{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	affine, _, err := Derive(orientation, []float64{0, 0, 0}, []float64{10, 100, 1000})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	want := [3][3]float64{
		{10, 2000, 300},
		{40, 5000, 600},
		{70, 8000, 900},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if affine.At(i, j) != want[i][j] {
				t.Errorf("Element (%d,%d): expected %v, got %v", i, j, want[i][j], affine.At(i, j))
			}
		}
	}
}

func TestDeriveBottomRow(t *testing.T) {
	inputs := [][3][]float64{
		{{0, 1, 0, -1, 0, 0, 0, 0, 1}, {10, 20, 30}, {1, 1, 1}},
		{{0.7, 0.7, 0, -0.7, 0.7, 0, 0, 0, 1}, {-3, 4, 5}, {20, 20, 20}},
		{{-1, 0, 0, 0, -1, 0, 0, 0, -1}, {0, 0, 0}, {0, 0, 0}},
	}

	for n, in := range inputs {
		affine, _, err := Derive(in[0], in[1], in[2])
		if err != nil {
			t.Fatalf("Case %d: Derive failed: %v", n, err)
		}
		rows := affine.Rows()
		if rows[3] != [4]float64{0, 0, 0, 1} {
			t.Errorf("Case %d: expected bottom row [0 0 0 1], got %v", n, rows[3])
		}
	}
}

func TestDeriveMultipleVoxels(t *testing.T) {
	orientation := []float64{
		1, 0, 0, 0, 1, 0, 0, 0, 1,
		0, 1, 0, 1, 0, 0, 0, 0, 1,
	}
	affine, advisories, err := Derive(orientation, []float64{1, 2, 3, 4, 5, 6}, []float64{1, 1, 1, 2, 2, 2})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if affine.At(0, 3) != 1 {
		t.Errorf("Expected first voxel position, got %v", affine.At(0, 3))
	}

	found := false
	for _, a := range advisories {
		if a == AdvisoryMultipleVoxels {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected multiple voxel advisory, got %v", advisories)
	}
}

func TestDeriveBadShape(t *testing.T) {
	_, _, err := Derive([]float64{1, 0, 0, 1}, []float64{0, 0, 0}, []float64{1, 1, 1})
	if !errors.Is(err, ErrBadShape) {
		t.Errorf("Expected ErrBadShape, got %v", err)
	}
	_, _, err = Derive([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, nil, []float64{1, 1, 1})
	if !errors.Is(err, ErrBadShape) {
		t.Errorf("Expected ErrBadShape for empty position, got %v", err)
	}
}

func TestApply(t *testing.T) {
	affine, _, err := Derive([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, []float64{1, 2, 3}, []float64{2, 2, 2})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	got := affine.Apply(1, 1, 1)
	want := [3]float64{3, 5, 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Coordinate %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
