package qc

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"spineqc/internal/models"
	"spineqc/pkg/config"
	"spineqc/pkg/nifti"
)

// MethodOverlay carries one method's mask volumes. Either volume may be nil;
// a method with both nil should not be passed to RenderFigure.
type MethodOverlay struct {
	Name  models.Method
	Cord  *nifti.Image
	Canal *nifti.Image
}

// HasData reports whether the method supplied any mask volume.
func (m *MethodOverlay) HasData() bool {
	return m.Cord != nil || m.Canal != nil
}

// Params configures one comparison figure.
type Params struct {
	// Native is the anatomical background volume.
	Native *nifti.Image

	// Vert optionally supplies vertebral levels for slice selection.
	Vert *nifti.Image

	// Overlays are the methods to draw, one figure row each, in order.
	Overlays []MethodOverlay

	// Title is drawn across the top of the figure.
	Title string

	// Palette maps method name to its overlay colors. Methods missing from
	// the palette fall back to a red cord and orange canal.
	Palette map[string]config.MethodPalette

	// AxialLevels are the vertebral levels shown in the four axial columns.
	AxialLevels []int

	// PanelSize is the edge length of one panel cell in pixels.
	PanelSize int
}

// Figure layout constants. The left margin carries row labels, the top
// margin the title line and column headers.
const (
	panelGap     = 8
	leftMargin   = 120
	titleBand    = 28
	headerBand   = 22
	bottomMargin = 8
	numCols      = 6 // sagittal, coronal, 4x axial
)

// Cord overlays are filled at half opacity; canal contours are drawn solid,
// matching the review convention of outline-canal over filled-cord.
const (
	cordFillAlpha     = 0.5
	canalContourAlpha = 1.0
)

type colDef struct {
	label  string
	view   models.View
	idx    int
	aspect float64
}

// RenderFigure builds the comparison grid: one reference row plus one row
// per overlay method, six columns (sagittal, coronal, four axial panels).
func RenderFigure(p Params) (*image.NRGBA, error) {
	if p.Native == nil {
		return nil, fmt.Errorf("native volume is required")
	}
	if len(p.Overlays) == 0 {
		return nil, fmt.Errorf("no segmentation data to draw")
	}
	if p.PanelSize <= 0 {
		p.PanelSize = 320
	}
	if len(p.AxialLevels) == 0 {
		p.AxialLevels = []int{1, 2, 3, 4}
	}

	sagAsp, corAsp, axAsp := ViewAspects(p.Native.Zooms())
	si, ci, ai := CenterIndices(p.Native, p.Vert)
	picks := SelectAxialPicks(p.Native, p.Vert, p.AxialLevels, ai)

	cols := []colDef{
		{label: "Sagittal", view: models.Sagittal, idx: si, aspect: sagAsp},
		{label: "Coronal", view: models.Coronal, idx: ci, aspect: corAsp},
	}
	for _, pick := range picks {
		cols = append(cols, colDef{label: pick.Label, view: models.Axial, idx: pick.Z, aspect: axAsp})
	}

	vmin, vmax := IntensityWindow(p.Native)

	nRows := len(p.Overlays) + 1
	width := leftMargin + numCols*(p.PanelSize+panelGap)
	height := titleBand + headerBand + nRows*(p.PanelSize+panelGap) + bottomMargin
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := color.NRGBA{0, 0, 0, 255}
	if p.Title != "" {
		drawText(canvas, leftMargin, titleBand-8, black, p.Title)
	}
	for c, col := range cols {
		x := leftMargin + c*(p.PanelSize+panelGap)
		drawText(canvas, x, titleBand+headerBand-6, black, col.label)
	}

	// Reference row, then one row per method.
	rowLabel := []string{"native"}
	for _, ov := range p.Overlays {
		rowLabel = append(rowLabel, string(ov.Name))
	}

	for r := 0; r < nRows; r++ {
		y := titleBand + headerBand + r*(p.PanelSize+panelGap)
		drawText(canvas, 6, y+p.PanelSize/2, black, rowLabel[r])

		var ov *MethodOverlay
		if r > 0 {
			ov = &p.Overlays[r-1]
		}

		for c, col := range cols {
			x := leftMargin + c*(p.PanelSize+panelGap)
			panel := renderPanel(p.Native, ov, col, vmin, vmax, p.Palette)
			placePanel(canvas, panel, x, y, p.PanelSize, col.aspect)

			if ov != nil && c == 0 {
				drawLegend(canvas, x, y, ov, p.Palette)
			}
		}
	}
	return canvas, nil
}

func renderPanel(native *nifti.Image, ov *MethodOverlay, col colDef, vmin, vmax float64,
	palette map[string]config.MethodPalette) *image.NRGBA {

	panel := GrayPanel(ExtractSlice(native, col.view, col.idx), vmin, vmax)
	if ov == nil {
		return panel
	}

	cordColor, canalColor := methodColors(string(ov.Name), palette)
	if ov.Canal != nil {
		OverlayContour(panel, ExtractSlice(ov.Canal, col.view, col.idx), canalColor, canalContourAlpha)
	}
	if ov.Cord != nil {
		OverlayFill(panel, ExtractSlice(ov.Cord, col.view, col.idx), cordColor, cordFillAlpha)
	}
	return panel
}

// placePanel resizes the panel so a data cell keeps the view's physical
// aspect ratio, fits it inside the cell, and centers it.
func placePanel(canvas *image.NRGBA, panel *image.NRGBA, x, y, cell int, aspect float64) {
	w := float64(panel.Rect.Dx())
	h := float64(panel.Rect.Dy()) * aspect
	scale := float64(cell) / w
	if s := float64(cell) / h; s < scale {
		scale = s
	}
	tw, th := int(w*scale), int(h*scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	resized := imaging.Resize(panel, tw, th, imaging.Lanczos)
	offset := image.Pt(x+(cell-tw)/2, y+(cell-th)/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(tw, th))},
		resized, image.Point{}, draw.Over)
}

func methodColors(name string, palette map[string]config.MethodPalette) (cord, canal color.NRGBA) {
	cord = color.NRGBA{228, 26, 28, 255}  // red
	canal = color.NRGBA{255, 165, 0, 255} // orange
	if pal, ok := palette[name]; ok {
		if c, err := ParseHexColor(pal.Cord); err == nil {
			cord = c
		}
		if c, err := ParseHexColor(pal.Canal); err == nil {
			canal = c
		}
	}
	return cord, canal
}

func drawLegend(canvas *image.NRGBA, x, y int, ov *MethodOverlay,
	palette map[string]config.MethodPalette) {

	cordColor, canalColor := methodColors(string(ov.Name), palette)
	line := y + 14
	if ov.Canal != nil {
		drawText(canvas, x+4, line, canalColor, fmt.Sprintf("%s canal", ov.Name))
		line += 14
	}
	if ov.Cord != nil {
		drawText(canvas, x+4, line, cordColor, fmt.Sprintf("%s cord", ov.Name))
	}
}

func drawText(dst *image.NRGBA, x, y int, c color.NRGBA, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// SaveFigure writes the figure as a raster image, creating the destination
// directory if needed. The format follows the file extension.
func SaveFigure(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return imaging.Save(img, path)
}
