package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/Akaiko1/rapid-culler/internal/action"
)

// gestureSurface is the image display area. It turns raw pointer input into
// logical gestures so the rest of the app never sees platform event quirks:
// primary/secondary taps map directly, and every wheel variant is funneled
// through action.NormalizeScroll.
type gestureSurface struct {
	widget.BaseWidget

	image     *canvas.Image
	message   *widget.Label
	onGesture func(action.Gesture)
}

func newGestureSurface(onGesture func(action.Gesture)) *gestureSurface {
	img := &canvas.Image{FillMode: canvas.ImageFillContain}
	msg := widget.NewLabel("Load folders to begin")
	msg.Alignment = fyne.TextAlignCenter

	s := &gestureSurface{image: img, message: msg, onGesture: onGesture}
	s.ExtendBaseWidget(s)
	return s
}

// SetImage displays a decoded image, hiding any message text.
func (s *gestureSurface) SetImage(img image.Image) {
	s.image.Image = img
	s.image.Show()
	s.message.Hide()
	s.image.Refresh()
}

// SetMessage replaces the image with centered placeholder text.
func (s *gestureSurface) SetMessage(text string) {
	s.image.Image = nil
	s.image.Hide()
	s.message.SetText(text)
	s.message.Show()
	s.Refresh()
}

func (s *gestureSurface) Tapped(_ *fyne.PointEvent) {
	s.onGesture(action.PrimaryClick)
}

func (s *gestureSurface) TappedSecondary(_ *fyne.PointEvent) {
	s.onGesture(action.SecondaryClick)
}

func (s *gestureSurface) Scrolled(ev *fyne.ScrollEvent) {
	if gesture, ok := action.NormalizeScroll(ev.Scrolled.DY); ok {
		s.onGesture(gesture)
	}
}

func (s *gestureSurface) CreateRenderer() fyne.WidgetRenderer {
	return &gestureSurfaceRenderer{s: s}
}

type gestureSurfaceRenderer struct {
	s *gestureSurface
}

func (r *gestureSurfaceRenderer) Layout(size fyne.Size) {
	r.s.image.Resize(size)
	r.s.image.Move(fyne.NewPos(0, 0))

	msgSize := r.s.message.MinSize()
	r.s.message.Resize(msgSize)
	r.s.message.Move(fyne.NewPos((size.Width-msgSize.Width)/2, (size.Height-msgSize.Height)/2))
}

func (r *gestureSurfaceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *gestureSurfaceRenderer) Refresh() {
	canvas.Refresh(r.s.image)
	r.s.message.Refresh()
}

func (r *gestureSurfaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.s.image, r.s.message}
}

func (r *gestureSurfaceRenderer) Destroy() {}
