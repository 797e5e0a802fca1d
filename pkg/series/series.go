// Package series assembles a single voxel spectroscopy series from a
// ParaVision scan directory holding a "method" parameter file and a "fid"
// sample file.
package series

import (
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"brukerfid/pkg/fid"
	"brukerfid/pkg/geometry"
	"brukerfid/pkg/paravision"
)

// Default file names inside a scan directory.
const (
	DefaultMethodFile = "method"
	DefaultFIDFile    = "fid"
)

// WarningKind classifies a non-fatal anomaly.
type WarningKind string

const (
	WarningSizeMismatch WarningKind = "size-mismatch"
	WarningSkippedLine  WarningKind = "skipped-line"
	WarningDegraded     WarningKind = "degraded-parameter"
)

// Warning is a non-fatal anomaly found during assembly.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Params holds the assembly configuration.
type Params struct {
	// Dir is the scan directory.
	Dir string

	// MethodFile and FIDFile name the files inside Dir. Empty values select
	// the defaults.
	MethodFile string
	FIDFile    string

	// ByteOrder of the fid words. Nil selects little endian.
	ByteOrder binary.ByteOrder

	// Strict rejects parameter files with skipped lines or degraded values.
	Strict bool

	// Logger receives a warning for every non-fatal anomaly. Nil disables
	// logging.
	Logger *log.Logger
}

// Series is the result of one conversion.
type Series struct {
	// Data is shaped (points after shift, channels, acquisitions).
	Data *ComplexSeries

	Affine *geometry.Affine

	// DwellTime is the sampling interval in seconds.
	DwellTime float64

	// Header is the parameter table plus ImagingFrequency, Dwelltime and
	// EchoTime.
	Header paravision.Table

	Acquisition Acquisition
	Advisories  []geometry.Advisory
	Warnings    []Warning
	Diagnostics paravision.Diagnostics
}

// Assembler converts one scan directory.
type Assembler struct {
	params *Params
}

// NewAssembler creates an assembler for the provided parameters.
func NewAssembler(params *Params) *Assembler {
	return &Assembler{params: params}
}

// ReadSeries converts the scan directory dir using default parameters.
func ReadSeries(dir string) (*Series, error) {
	return NewAssembler(&Params{Dir: dir}).Assemble()
}

// Assemble runs the conversion: parse the method file, derive the
// acquisition and geometry, read and reshape the fid, and build the header.
// All required parameters are checked before the fid is opened.
func (a *Assembler) Assemble() (*Series, error) {
	table, diag, err := paravision.ParseFile(a.methodPath())
	if err != nil {
		return nil, err
	}

	out := &Series{Diagnostics: diag}
	a.collectDiagnostics(out, diag)
	if a.params.Strict && !diag.Clean() {
		return nil, fmt.Errorf("%d skipped lines, %d degraded parameters: %w",
			len(diag.Skipped), len(diag.Degraded), ErrStrict)
	}

	acq, err := AcquisitionFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("unsupported acquisition: %w", err)
	}
	out.Acquisition = acq
	out.DwellTime = acq.DwellTime

	affine, advisories, err := affineFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("failed to derive affine: %w", err)
	}
	out.Affine = affine
	out.Advisories = advisories
	for _, adv := range advisories {
		a.logWarn("geometry advisory", "advisory", string(adv))
	}

	result, err := fid.Read(a.fidPath(), acq.WordCount(), a.params.ByteOrder)
	if err != nil {
		return nil, err
	}
	if result.Mismatch != nil {
		out.Warnings = append(out.Warnings, Warning{Kind: WarningSizeMismatch, Message: result.Mismatch.String()})
		a.logWarn("fid size mismatch",
			"expected", result.Mismatch.Expected,
			"available", result.Mismatch.Available,
			"short", result.Mismatch.Short())
	}

	data, err := Reshape(result.Samples, acq.Points, acq.Channels, acq.Acquisitions, acq.Shift)
	if err != nil {
		return nil, fmt.Errorf("failed to reshape fid: %w", err)
	}
	out.Data = data
	out.Header = table.With(acq.headerValues())

	return out, nil
}

func (a *Assembler) methodPath() string {
	name := a.params.MethodFile
	if name == "" {
		name = DefaultMethodFile
	}
	return filepath.Join(a.params.Dir, name)
}

func (a *Assembler) fidPath() string {
	name := a.params.FIDFile
	if name == "" {
		name = DefaultFIDFile
	}
	return filepath.Join(a.params.Dir, name)
}

func (a *Assembler) collectDiagnostics(out *Series, diag paravision.Diagnostics) {
	for _, s := range diag.Skipped {
		out.Warnings = append(out.Warnings, Warning{
			Kind:    WarningSkippedLine,
			Message: fmt.Sprintf("line %d: %s", s.Line, s.Text),
		})
		a.logWarn("skipped parameter line", "line", s.Line, "text", s.Text)
	}
	for _, name := range diag.Degraded {
		out.Warnings = append(out.Warnings, Warning{Kind: WarningDegraded, Message: name})
		a.logWarn("degraded parameter", "name", name)
	}
}

func (a *Assembler) logWarn(msg string, keyvals ...interface{}) {
	if a.params.Logger != nil {
		a.params.Logger.Warn(msg, keyvals...)
	}
}

// affineFromTable reads the voxel geometry parameters and derives the affine.
func affineFromTable(t paravision.Table) (*geometry.Affine, []geometry.Advisory, error) {
	orientation, err := t.Floats(ParamOrientation)
	if err != nil {
		return nil, nil, err
	}
	position, err := t.Floats(ParamPosition)
	if err != nil {
		return nil, nil, err
	}
	size, err := t.Floats(ParamSize)
	if err != nil {
		return nil, nil, err
	}
	return geometry.Derive(orientation, position, size)
}
