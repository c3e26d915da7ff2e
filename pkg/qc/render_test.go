package qc

import (
	"image/color"
	"testing"

	"spineqc/internal/models"
	"spineqc/pkg/nifti"
)

// TestExtractSliceOrientation verifies the 90-degree rotation: for sagittal
// and coronal views, increasing z in the volume moves up the panel.
func TestExtractSliceOrientation(t *testing.T) {
	img := nifti.New(3, 4, 5)
	// Mark superior-most slice.
	img.SetAt(1, 2, 4, 7)

	sag := ExtractSlice(img, models.Sagittal, 1)
	if sag.W != 4 || sag.H != 5 {
		t.Fatalf("Expected sagittal grid 4x5, got %dx%d", sag.W, sag.H)
	}
	// z=4 lands on row 0, y=2 on column 2.
	if sag.At(0, 2) != 7 {
		t.Errorf("Expected marked voxel at sagittal (0, 2), got %f", sag.At(0, 2))
	}

	cor := ExtractSlice(img, models.Coronal, 2)
	if cor.W != 3 || cor.H != 5 {
		t.Fatalf("Expected coronal grid 3x5, got %dx%d", cor.W, cor.H)
	}
	if cor.At(0, 1) != 7 {
		t.Errorf("Expected marked voxel at coronal (0, 1), got %f", cor.At(0, 1))
	}

	ax := ExtractSlice(img, models.Axial, 4)
	if ax.W != 3 || ax.H != 4 {
		t.Fatalf("Expected axial grid 3x4, got %dx%d", ax.W, ax.H)
	}
	// y=2 maps to row Ny-1-2 = 1.
	if ax.At(1, 1) != 7 {
		t.Errorf("Expected marked voxel at axial (1, 1), got %f", ax.At(1, 1))
	}
}

// TestIntensityWindow verifies the percentile window is robust to extreme
// voxels.
func TestIntensityWindow(t *testing.T) {
	img := nifti.New(10, 10, 10)
	for i := range img.Data {
		img.Data[i] = float64(i)
	}

	vmin, vmax := IntensityWindow(img)

	if vmin < 5 || vmin > 15 {
		t.Errorf("Expected vmin near the 1st percentile, got %f", vmin)
	}
	if vmax < 985 || vmax > 995 {
		t.Errorf("Expected vmax near the 99th percentile, got %f", vmax)
	}
	if vmin >= vmax {
		t.Errorf("Expected vmin < vmax, got %f >= %f", vmin, vmax)
	}
}

// TestGrayPanelWindowing verifies clipping below and above the window.
func TestGrayPanelWindowing(t *testing.T) {
	g := &Grid{W: 3, H: 1, V: []float64{-10, 50, 500}}

	panel := GrayPanel(g, 0, 100)

	if got := panel.NRGBAAt(0, 0); got.R != 0 {
		t.Errorf("Expected below-window pixel to clip to 0, got %d", got.R)
	}
	if got := panel.NRGBAAt(1, 0); got.R < 126 || got.R > 129 {
		t.Errorf("Expected mid-window pixel near 127, got %d", got.R)
	}
	if got := panel.NRGBAAt(2, 0); got.R != 255 {
		t.Errorf("Expected above-window pixel to clip to 255, got %d", got.R)
	}
}

// TestOverlayFillBlends verifies the fill touches only mask-positive pixels.
func TestOverlayFillBlends(t *testing.T) {
	g := &Grid{W: 2, H: 1, V: []float64{0, 0}}
	panel := GrayPanel(g, 0, 1)
	mask := &Grid{W: 2, H: 1, V: []float64{0, 1}}
	red := color.NRGBA{255, 0, 0, 255}

	OverlayFill(panel, mask, red, 0.5)

	if got := panel.NRGBAAt(0, 0); got.R != 0 {
		t.Errorf("Expected background pixel untouched, got R=%d", got.R)
	}
	got := panel.NRGBAAt(1, 0)
	if got.R < 126 || got.R > 129 || got.G != 0 {
		t.Errorf("Expected half-blended red pixel, got %+v", got)
	}
}

// TestOverlayContourLeavesInterior verifies the contour outlines a solid
// region without filling its center.
func TestOverlayContourLeavesInterior(t *testing.T) {
	g := &Grid{W: 7, H: 7, V: make([]float64, 49)}
	panel := GrayPanel(g, 0, 1)

	mask := &Grid{W: 7, H: 7, V: make([]float64, 49)}
	for row := 1; row <= 5; row++ {
		for col := 1; col <= 5; col++ {
			mask.V[row*7+col] = 1
		}
	}
	yellow := color.NRGBA{255, 255, 0, 255}

	OverlayContour(panel, mask, yellow, 1.0)

	if got := panel.NRGBAAt(1, 1); got.R != 255 || got.G != 255 {
		t.Errorf("Expected boundary pixel drawn, got %+v", got)
	}
	if got := panel.NRGBAAt(3, 3); got.R != 0 {
		t.Errorf("Expected mask center left unfilled, got %+v", got)
	}
	if got := panel.NRGBAAt(0, 0); got.R != 0 {
		t.Errorf("Expected pixel outside mask untouched, got %+v", got)
	}
}

// TestParseHexColor covers valid and malformed inputs.
func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#e41a1c")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.R != 0xe4 || c.G != 0x1a || c.B != 0x1c || c.A != 255 {
		t.Errorf("Expected #e41a1c to parse to (228, 26, 28, 255), got %+v", c)
	}

	if _, err := ParseHexColor("red"); err == nil {
		t.Errorf("Expected an error for a non-hex color")
	}
}
