package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// DropZone is the outlined area of the upload step. Tapping it opens the
// file chooser; files dropped on the window are handled by RootUI.
type DropZone struct {
	widget.BaseWidget

	OnTapped func()

	icon   *canvas.Text
	hint   *widget.Label
	border *canvas.Rectangle
}

// NewDropZone creates a drop zone showing hint
func NewDropZone(hint string, onTapped func()) *DropZone {
	d := &DropZone{OnTapped: onTapped}

	d.icon = canvas.NewText(IconUpload, theme.Color(theme.ColorNameForeground))
	d.icon.TextSize = FileIconTextSize
	d.icon.Alignment = fyne.TextAlignCenter

	d.hint = widget.NewLabel(hint)
	d.hint.Alignment = fyne.TextAlignCenter
	d.hint.Wrapping = fyne.TextWrapWord

	d.border = canvas.NewRectangle(color.Transparent)
	d.border.StrokeColor = theme.Color(ColorNameDropZone)
	d.border.StrokeWidth = DropZoneStroke
	d.border.CornerRadius = DropZoneRadius

	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *DropZone) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewCenter(container.NewVBox(d.icon, d.hint))
	return widget.NewSimpleRenderer(container.NewStack(d.border, content))
}

// MinSize keeps the zone large enough to aim a drop at
func (d *DropZone) MinSize() fyne.Size {
	size := d.BaseWidget.MinSize()
	return fyne.NewSize(fyne.Max(size.Width, DropZoneMinWidth), fyne.Max(size.Height, DropZoneMinHeight))
}

// SetHint replaces the hint text
func (d *DropZone) SetHint(text string) {
	d.hint.SetText(text)
}

// Tapped implements fyne.Tappable
func (d *DropZone) Tapped(*fyne.PointEvent) {
	if d.OnTapped != nil {
		d.OnTapped()
	}
}

// MouseIn implements desktop.Hoverable
func (d *DropZone) MouseIn(*desktop.MouseEvent) {
	d.border.FillColor = theme.Color(theme.ColorNameHover)
	d.border.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (d *DropZone) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (d *DropZone) MouseOut() {
	d.border.FillColor = color.Transparent
	d.border.Refresh()
}
