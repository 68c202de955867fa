package illustrator

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

const (
	placeholderWidth  = 1280
	placeholderHeight = 720
)

// renderPlaceholder draws a simple branded slide carrying the section
// title, used when the generative capability is unavailable.
func renderPlaceholder(title string) ([]byte, error) {
	dc := gg.NewContext(placeholderWidth, placeholderHeight)

	grad := gg.NewLinearGradient(0, 0, float64(placeholderWidth), float64(placeholderHeight))
	grad.AddColorStop(0, color.RGBA{R: 0x1a, G: 0x1f, B: 0x3a, A: 0xff})
	grad.AddColorStop(1, color.RGBA{R: 0x2d, G: 0x1b, B: 0x4e, A: 0xff})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(placeholderWidth), float64(placeholderHeight))
	dc.Fill()

	// Accent bar under the title area.
	dc.SetHexColor("ffd700")
	dc.DrawRectangle(100, 400, 320, 6)
	dc.Fill()

	dc.SetHexColor("ffffff")
	dc.DrawStringAnchored(title, float64(placeholderWidth)/2, float64(placeholderHeight)/2-40, 0.5, 0.5)
	dc.SetHexColor("9aa0b8")
	dc.DrawStringAnchored("illustration unavailable", float64(placeholderWidth)/2, float64(placeholderHeight)/2+20, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
