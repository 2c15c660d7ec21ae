package aire

import (
	"errors"
	"fmt"

	"github.com/gogpu/aire/internal/enhance"
	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/internal/geometry"
	"github.com/gogpu/aire/internal/tone"
	"github.com/gogpu/aire/kernel"
	"github.com/gogpu/aire/raster"
)

// Errors returned by aire operations. Match them with errors.Is.
var (
	// ErrInvalidParameter is returned for radii, sigmas, exposures and
	// other parameters outside their documented domain.
	ErrInvalidParameter = errors.New("aire: invalid parameter")

	// ErrInvalidDimensions is returned for non-positive sizes or
	// unsupported channel counts.
	ErrInvalidDimensions = raster.ErrInvalidDimensions

	// ErrOutOfBounds is returned for coordinates outside a raster.
	ErrOutOfBounds = raster.ErrOutOfBounds

	// ErrInvalidKernelSize is returned for even sizes, sizes outside the
	// permitted range, or weight counts that do not match the size.
	ErrInvalidKernelSize = kernel.ErrInvalidKernelSize
)

// paramError marks an error from an internal package as an invalid
// parameter while keeping its message and its own sentinel.
type paramError struct {
	err error
}

func (e paramError) Error() string   { return e.err.Error() }
func (e paramError) Unwrap() []error { return []error{ErrInvalidParameter, e.err} }

func isParamError(err error) bool {
	return errors.Is(err, filter.ErrInvalidParameter) ||
		errors.Is(err, tone.ErrInvalidParameter) ||
		errors.Is(err, enhance.ErrInvalidParameter) ||
		errors.Is(err, geometry.ErrSingular)
}

// wrapError prefixes err with the operation name.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isParamError(err) && !errors.Is(err, ErrInvalidParameter) {
		err = paramError{err}
	}
	return fmt.Errorf("aire: %s: %w", op, err)
}

// invalidf builds an ErrInvalidParameter error.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}
