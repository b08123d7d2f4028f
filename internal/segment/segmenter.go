// Package segment defines the boundary to the external segmentation model
// and the normalization of source imagery. The model itself is a black box:
// anything that can turn an image into candidate masks can sit behind the
// Segmenter interface.
package segment

import (
	"fmt"
	"image"

	"course-tracer/internal/mask"
)

// DeviceHint is an opaque runtime hint passed through to the segmenter
// (e.g. "cpu", "cuda:0"). The pipeline never interprets it.
type DeviceHint string

// InvocationError reports a failed segmenter call. It is fatal to the whole
// run: no pipeline stage starts after one.
type InvocationError struct {
	Hint DeviceHint
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("segmenter invocation (hint %q): %v", string(e.Hint), e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Segmenter produces class-agnostic candidate masks for one image. It is
// invoked exactly once per image; the pipeline performs no retries.
type Segmenter interface {
	Segment(img image.Image, hint DeviceHint) ([]*mask.RawMask, error)
}
