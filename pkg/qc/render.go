package qc

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/stat"

	"spineqc/internal/models"
	"spineqc/pkg/nifti"
)

// Grid is a 2-D float slice in display orientation (row 0 at the top).
type Grid struct {
	W, H int
	V    []float64
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.V[row*g.W+col]
}

// ExtractSlice pulls a 2-D slice from the volume along the given view and
// rotates it 90 degrees counter-clockwise for radiological display, so the
// superior-inferior axis runs down the panel in the sagittal and coronal
// views.
func ExtractSlice(img *nifti.Image, view models.View, idx int) *Grid {
	switch view {
	case models.Sagittal:
		// Source plane (y, z); rotated rows run over z, columns over y.
		g := &Grid{W: img.Ny, H: img.Nz, V: make([]float64, img.Ny*img.Nz)}
		for row := 0; row < g.H; row++ {
			z := img.Nz - 1 - row
			for col := 0; col < g.W; col++ {
				g.V[row*g.W+col] = img.At(idx, col, z)
			}
		}
		return g
	case models.Coronal:
		// Source plane (x, z); rotated rows run over z, columns over x.
		g := &Grid{W: img.Nx, H: img.Nz, V: make([]float64, img.Nx*img.Nz)}
		for row := 0; row < g.H; row++ {
			z := img.Nz - 1 - row
			for col := 0; col < g.W; col++ {
				g.V[row*g.W+col] = img.At(col, idx, z)
			}
		}
		return g
	default:
		// Axial: source plane (x, y); rotated rows run over y, columns over x.
		g := &Grid{W: img.Nx, H: img.Ny, V: make([]float64, img.Nx*img.Ny)}
		for row := 0; row < g.H; row++ {
			y := img.Ny - 1 - row
			for col := 0; col < g.W; col++ {
				g.V[row*g.W+col] = img.At(col, y, idx)
			}
		}
		return g
	}
}

// ViewAspects returns the display aspect ratio (pixel height over width) for
// the sagittal, coronal, and axial views given the voxel spacing. All 1.0
// when spacing is unavailable.
func ViewAspects(zooms [3]float64) (sag, cor, ax float64) {
	dx, dy, dz := zooms[0], zooms[1], zooms[2]
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 1, 1, 1
	}
	return dz / dy, dz / dx, dy / dx
}

// IntensityWindow computes the display window as the 1st and 99th intensity
// percentiles of the volume, which keeps a few hot voxels from washing out
// the whole figure.
func IntensityWindow(img *nifti.Image) (vmin, vmax float64) {
	sorted := make([]float64, len(img.Data))
	copy(sorted, img.Data)
	sort.Float64s(sorted)
	vmin = stat.Quantile(0.01, stat.Empirical, sorted, nil)
	vmax = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	if vmax <= vmin {
		vmax = vmin + 1
	}
	return vmin, vmax
}

// GrayPanel renders the grid as a grayscale image windowed to [vmin, vmax].
func GrayPanel(g *Grid, vmin, vmax float64) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	scale := 255.0 / (vmax - vmin)
	for row := 0; row < g.H; row++ {
		for col := 0; col < g.W; col++ {
			v := (g.At(row, col) - vmin) * scale
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			y := uint8(v)
			out.SetNRGBA(col, row, color.NRGBA{y, y, y, 255})
		}
	}
	return out
}

// OverlayFill alpha-blends the mask's positive region onto the panel as a
// semi-transparent filled overlay.
func OverlayFill(panel *image.NRGBA, mask *Grid, c color.NRGBA, alpha float64) {
	for row := 0; row < mask.H && row < panel.Rect.Dy(); row++ {
		for col := 0; col < mask.W && col < panel.Rect.Dx(); col++ {
			if mask.At(row, col) > 0 {
				blend(panel, col, row, c, alpha)
			}
		}
	}
}

// OverlayContour draws the outline of the mask's positive region: every
// foreground cell with a background 4-neighbor (or on the panel edge),
// thickened by one cell into the mask so the line reads at figure scale.
func OverlayContour(panel *image.NRGBA, mask *Grid, c color.NRGBA, alpha float64) {
	boundary := make([]bool, len(mask.V))
	for row := 0; row < mask.H; row++ {
		for col := 0; col < mask.W; col++ {
			if mask.At(row, col) <= 0 {
				continue
			}
			if row == 0 || col == 0 || row == mask.H-1 || col == mask.W-1 ||
				mask.At(row-1, col) <= 0 || mask.At(row+1, col) <= 0 ||
				mask.At(row, col-1) <= 0 || mask.At(row, col+1) <= 0 {
				boundary[row*mask.W+col] = true
			}
		}
	}
	for row := 0; row < mask.H && row < panel.Rect.Dy(); row++ {
		for col := 0; col < mask.W && col < panel.Rect.Dx(); col++ {
			if !boundary[row*mask.W+col] {
				continue
			}
			blend(panel, col, row, c, alpha)
			// Thicken inward where the neighbor is still foreground.
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				r, cl := row+d[0], col+d[1]
				if r >= 0 && r < mask.H && cl >= 0 && cl < mask.W &&
					mask.At(r, cl) > 0 && !boundary[r*mask.W+cl] {
					blend(panel, cl, r, c, alpha)
				}
			}
		}
	}
}

func blend(panel *image.NRGBA, x, y int, c color.NRGBA, alpha float64) {
	bg := panel.NRGBAAt(x, y)
	mix := func(b, f uint8) uint8 {
		return uint8(float64(b)*(1-alpha) + float64(f)*alpha)
	}
	panel.SetNRGBA(x, y, color.NRGBA{
		R: mix(bg.R, c.R),
		G: mix(bg.G, c.G),
		B: mix(bg.B, c.B),
		A: 255,
	})
}

// ParseHexColor converts a #rrggbb string to an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
