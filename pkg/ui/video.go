package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// VideoDisplay renders the live camera preview (or the overlay frame drawn
// by vision.DrawPolygonOverlay) and doubles as the manual-capture control:
// the scan app wires OnTapped to Session.TriggerManualCapture so tapping
// anywhere on the preview forces a capture regardless of tracker state.
type VideoDisplay struct {
	widget.BaseWidget

	// mu ensures we don't read / write the image at the same time
	mu    sync.Mutex
	image *canvas.Image

	// OnTapped is called when the user taps the display. A capture trigger
	// needs no image-space coordinates, so unlike the corner-calibration
	// click handler this widget used to back, a tap is just a signal.
	OnTapped func()
}

// NewVideoDisplay is used to create widget instance
func NewVideoDisplay() *VideoDisplay {
	v := &VideoDisplay{}
	v.ExtendBaseWidget(v)

	// Create the internal canvas image
	v.image = canvas.NewImageFromImage(nil)
	v.image.FillMode = canvas.ImageFillContain
	return v
}

// UpdateFrame is a thread safe way to send a new image
func (v *VideoDisplay) UpdateFrame(img image.Image) {
	v.mu.Lock()
	v.image.Image = img
	v.mu.Unlock()

	// Ask Fyne to queue redraw image on the main UI thread
	v.Refresh()
}

// Tapped signals a manual capture request. Unlike the corner-calibration
// click mapper this replaced, no image-space coordinate is needed.
func (v *VideoDisplay) Tapped(*fyne.PointEvent) {
	if v.OnTapped != nil {
		v.OnTapped()
	}
}

// TappedSecondary is a no-op required by fyne.Tappable.
func (v *VideoDisplay) TappedSecondary(*fyne.PointEvent) {}

// CreateRenderer is used to create a video renderer
func (v *VideoDisplay) CreateRenderer() fyne.WidgetRenderer {
	return &videoRenderer{v}
}

// videoRenderer implements the logic to draw the widget
type videoRenderer struct {
	v *VideoDisplay
}

// Destroy implements [fyne.WidgetRenderer].
func (r *videoRenderer) Destroy() {}

// MinSize implements [fyne.WidgetRenderer].
func (r *videoRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 75)
}

// Objects implements [fyne.WidgetRenderer].
func (r *videoRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.v.image}
}

// Refresh implements [fyne.WidgetRenderer].
func (r *videoRenderer) Refresh() {
	r.v.mu.Lock()
	fyne.Do(func() {
		r.v.image.Refresh()
	})
	r.v.mu.Unlock()
}

func (r *videoRenderer) Layout(s fyne.Size) {
	r.v.image.Resize(s)
}
