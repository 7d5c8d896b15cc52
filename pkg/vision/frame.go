package vision

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrInvalidFrame signals a zero-dimension or unsupported channel layout,
// per spec.md §7's InvalidFrame error kind.
var ErrInvalidFrame = errors.New("vision: invalid frame")

// FrameView is the neutral "image view" boundary value from spec.md §9:
// width, height, channel count and a pixel buffer, independent of any
// particular camera library's native frame type. Host adapters (e.g.
// pkg/camera) construct it from whatever they read off the device; the
// rest of this package never imports camera types.
type FrameView struct {
	Width, Height, Channels int
	Mat                     gocv.Mat
}

// NewFrameView validates and wraps a gocv.Mat as a FrameView.
func NewFrameView(mat gocv.Mat) (FrameView, error) {
	if mat.Empty() || mat.Cols() == 0 || mat.Rows() == 0 {
		return FrameView{}, ErrInvalidFrame
	}
	channels := mat.Channels()
	if channels != 1 && channels < 3 {
		return FrameView{}, ErrInvalidFrame
	}
	return FrameView{Width: mat.Cols(), Height: mat.Rows(), Channels: channels, Mat: mat}, nil
}
