package series

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrReshape            = errors.New("sample count does not fill the acquisition shape")
	ErrInvalidAcquisition = errors.New("acquisition parameters are not supported")
	ErrStrict             = errors.New("parameter file has skipped or degraded entries")
)

// ReshapeError reports a fid that holds fewer samples than the acquisition
// shape requires.
type ReshapeError struct {
	Want int
	Have int
}

func (e *ReshapeError) Error() string {
	return fmt.Sprintf("need %d complex samples, have %d", e.Want, e.Have)
}

// Is reports whether target is ErrReshape.
func (e *ReshapeError) Is(target error) bool {
	return target == ErrReshape
}
