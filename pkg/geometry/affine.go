// Package geometry derives the voxel affine of a single voxel spectroscopy
// acquisition from its orientation, position and size parameters.
package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrBadShape is returned when a geometry parameter has an unusable number of
// elements.
var ErrBadShape = errors.New("geometry parameter has invalid shape")

// Advisory is a caveat attached to a derived affine.
type Advisory string

const (
	// AdvisoryUnverifiedOrientation marks that the orientation sign and axis
	// convention has not been validated against reference data.
	AdvisoryUnverifiedOrientation Advisory = "unverified-orientation"

	// AdvisoryMultipleVoxels marks that more than one voxel was described
	// and only the first was used.
	AdvisoryMultipleVoxels Advisory = "multiple-voxels"
)

// axisOrder swaps the second and third spatial axes. This is a convention
// of the instrument, not a general rule.
var axisOrder = [3]int{0, 2, 1}

// Affine is a 4x4 matrix mapping array indices to physical coordinates.
type Affine struct {
	m *mat.Dense
}

// At returns element (i, j).
func (a *Affine) At(i, j int) float64 {
	return a.m.At(i, j)
}

// Rows returns a copy of the matrix as an array.
func (a *Affine) Rows() [4][4]float64 {
	var rows [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			rows[i][j] = a.m.At(i, j)
		}
	}
	return rows
}

// Apply maps the array index (i, j, k) to physical coordinates.
func (a *Affine) Apply(i, j, k float64) [3]float64 {
	var out mat.VecDense
	out.MulVec(a.m, mat.NewVecDense(4, []float64{i, j, k, 1}))
	return [3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// String formats the matrix one row per line.
func (a *Affine) String() string {
	return fmt.Sprintf("%v", mat.Formatted(a.m, mat.Squeeze()))
}

// Derive builds the affine from an orientation (9 elements, row-major 3x3),
// a position (3 elements) and a size (3 elements). Column j of the rotation
// block is orientation column j scaled by size[axisOrder[j]]; the
// translation is position permuted by axisOrder. When a parameter describes
// several voxels the first one is used.
//
// The returned advisories always include AdvisoryUnverifiedOrientation.
func Derive(orientation, position, size []float64) (*Affine, []Advisory, error) {
	advisories := []Advisory{AdvisoryUnverifiedOrientation}

	orient, multi, err := firstVoxel("orientation", orientation, 9)
	if err != nil {
		return nil, nil, err
	}
	pos, multiPos, err := firstVoxel("position", position, 3)
	if err != nil {
		return nil, nil, err
	}
	sz, multiSize, err := firstVoxel("size", size, 3)
	if err != nil {
		return nil, nil, err
	}
	if multi || multiPos || multiSize {
		advisories = append(advisories, AdvisoryMultipleVoxels)
	}

	rotation := mat.NewDense(3, 3, orient)
	scale := mat.NewDiagDense(3, []float64{sz[axisOrder[0]], sz[axisOrder[1]], sz[axisOrder[2]]})

	var block mat.Dense
	block.Mul(rotation, scale)

	m := mat.NewDense(4, 4, nil)
	m.Slice(0, 3, 0, 3).(*mat.Dense).Copy(&block)
	for i := 0; i < 3; i++ {
		m.Set(i, 3, pos[axisOrder[i]])
	}
	m.Set(3, 3, 1)

	return &Affine{m: m}, advisories, nil
}

func firstVoxel(name string, data []float64, n int) ([]float64, bool, error) {
	if len(data) == 0 || len(data)%n != 0 {
		return nil, false, fmt.Errorf("%s has %d elements, want a multiple of %d: %w", name, len(data), n, ErrBadShape)
	}
	out := make([]float64, n)
	copy(out, data[:n])
	return out, len(data) > n, nil
}
