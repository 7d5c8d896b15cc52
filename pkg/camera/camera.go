package camera

import (
	"fmt"

	"github.com/intothevoid/docscan/pkg/vision"
	"gocv.io/x/gocv"
)

// VideoStream manages the webcam connection
type VideoStream struct {
	deviceID int
	webcam   *gocv.VideoCapture
	frame    *gocv.Mat // Keep a reusable matrix to save memory
}

// NewVideoStream initializes the camera
func NewVideoStream(id int) (*VideoStream, error) {
	cam, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("failed to open device: %v", err)
	}

	// Optional: Set resolution (keeps processing fast)
	cam.Set(gocv.VideoCaptureFrameWidth, 640)
	cam.Set(gocv.VideoCaptureFrameHeight, 480)

	mat := gocv.NewMat()
	return &VideoStream{
		deviceID: id,
		webcam:   cam,
		frame:    &mat,
	}, nil
}

// ReadFrame reads the next frame off the device and wraps it as the
// neutral vision.FrameView boundary value, so nothing above this package
// needs to know the frame came from gocv.
func (vs *VideoStream) ReadFrame() (vision.FrameView, error) {
	if !vs.webcam.Read(vs.frame) {
		return vision.FrameView{}, fmt.Errorf("cannot read frame")
	}
	return vision.NewFrameView(*vs.frame)
}

func (vs *VideoStream) Close() {
	vs.webcam.Close()
	vs.frame.Close()
}
