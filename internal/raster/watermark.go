package raster

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/pagevault/pagevault/internal/identity"
)

// stampTimeLayout is the local-formatted timestamp in the primary label.
const stampTimeLayout = "02/01/2006 15:04"

// Watermarker composites viewer-identity labels onto page rasters. Stamping
// is deterministic: identical raster, identity, and timestamp produce an
// identical output image.
type Watermarker struct {
	fontSize float64
	opacity  float64

	primaryFace   font.Face
	secondaryFace font.Face
	centerFace    font.Face
}

// NewWatermarker parses the embedded fonts and builds the three faces used
// by Stamp: a bold primary label, a smaller secondary label, and a large
// center label.
func NewWatermarker(fontSize, opacity float64) (*Watermarker, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}

	primaryFace, err := newFace(bold, fontSize)
	if err != nil {
		return nil, err
	}
	secondaryFace, err := newFace(regular, fontSize-2)
	if err != nil {
		return nil, err
	}
	centerFace, err := newFace(bold, fontSize+10)
	if err != nil {
		return nil, err
	}

	return &Watermarker{
		fontSize:      fontSize,
		opacity:       opacity,
		primaryFace:   primaryFace,
		secondaryFace: secondaryFace,
		centerFace:    centerFace,
	}, nil
}

// Stamp draws three identity overlays onto the raster:
//
//  1. the primary label (email | name | timestamp) bottom-left, over a
//     semi-opaque backing rectangle sized to the text
//  2. the email alone top-right, at lower opacity
//  3. the upper-cased username, large and rotated -45 degrees, centered on
//     the page at very low opacity
//
// The input image is not modified.
func (w *Watermarker) Stamp(img image.Image, viewer identity.Identity, stampedAt time.Time) (image.Image, error) {
	bounds := img.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	dc := gg.NewContextForImage(img)

	// Primary label with backing rectangle, bottom-left.
	primary := fmt.Sprintf("%s | %s | %s", viewer.Email, viewer.Label(), stampedAt.Format(stampTimeLayout))
	dc.SetFontFace(w.primaryFace)
	textWidth, textHeight := dc.MeasureString(primary)
	x := 10.0
	y := height - 10.0

	dc.SetRGBA(1, 1, 1, w.opacity*0.8)
	dc.DrawRectangle(x-5, y-textHeight+5, textWidth+10, textHeight)
	dc.Fill()

	dc.SetRGBA(0.5, 0.5, 0.5, w.opacity)
	dc.DrawString(primary, x, y)

	// Secondary label, top-right.
	dc.SetFontFace(w.secondaryFace)
	dc.SetRGBA(0.5, 0.5, 0.5, w.opacity*0.3)
	secondaryWidth, _ := dc.MeasureString(viewer.Email)
	dc.DrawString(viewer.Email, width-secondaryWidth-10, 20)

	// Large rotated username, centered.
	center := strings.ToUpper(viewer.Username())
	dc.SetFontFace(w.centerFace)
	dc.SetRGBA(0.5, 0.5, 0.5, w.opacity*0.1)
	centerWidth, _ := dc.MeasureString(center)
	cx := (width - centerWidth) / 2
	cy := height / 2

	dc.Push()
	dc.RotateAbout(gg.Radians(-45), cx, cy)
	dc.DrawString(center, cx, cy)
	dc.Pop()

	return dc.Image(), nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build font face: %w", err)
	}
	return face, nil
}
