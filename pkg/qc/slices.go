// Package qc renders multi-panel comparison figures of cord/canal
// segmentations overlaid on a native anatomical volume.
package qc

import (
	"fmt"
	"math"

	"spineqc/pkg/nifti"
)

// AxialPick is one chosen axial panel: its column title and slice index.
type AxialPick struct {
	Label string
	Z     int
}

// CenterIndices picks the representative sagittal, coronal, and axial slice
// indices. With a vertebral-level volume supplied, the centroid of its
// positive voxels centers the view on the labeled spine; otherwise the
// geometric center of the native volume is used. Indices are clamped to the
// native volume's bounds.
func CenterIndices(native, vert *nifti.Image) (si, ci, ai int) {
	si, ci, ai = native.Nx/2, native.Ny/2, native.Nz/2

	if vert != nil {
		var sx, sy, sz float64
		n := 0
		for z := 0; z < vert.Nz; z++ {
			for y := 0; y < vert.Ny; y++ {
				for x := 0; x < vert.Nx; x++ {
					if vert.At(x, y, z) > 0 {
						sx += float64(x)
						sy += float64(y)
						sz += float64(z)
						n++
					}
				}
			}
		}
		if n > 0 {
			si = int(sx / float64(n))
			ci = int(sy / float64(n))
			ai = int(sz / float64(n))
		}
	}

	si = clamp(si, 0, native.Nx-1)
	ci = clamp(ci, 0, native.Ny-1)
	ai = clamp(ai, 0, native.Nz-1)
	return si, ci, ai
}

// AxialLevelPicks returns the mid-slice of each requested vertebral level,
// labeled by cervical level. Levels absent from the volume contribute
// nothing; a nil volume yields no picks.
func AxialLevelPicks(vert *nifti.Image, levels []int) []AxialPick {
	if vert == nil {
		return nil
	}
	var picks []AxialPick
	perSlice := vert.Nx * vert.Ny
	for _, level := range levels {
		var zs []int
		for z := 0; z < vert.Nz; z++ {
			base := z * perSlice
			for i := base; i < base+perSlice; i++ {
				if int(math.Round(vert.Data[i])) == level {
					zs = append(zs, z)
					break
				}
			}
		}
		if len(zs) > 0 {
			picks = append(picks, AxialPick{
				Label: fmt.Sprintf("Axial C%d", level),
				Z:     zs[len(zs)/2],
			})
		}
	}
	return picks
}

// EvenlySpacedPicks is the fallback when no vertebral levels are available:
// four slices spread around the axial center index ai.
func EvenlySpacedPicks(nz, ai int) []AxialPick {
	spread := nz / 8
	return []AxialPick{
		{Label: "Axial sup", Z: clamp(ai-3*spread, 0, nz-1)},
		{Label: "Axial mid-sup", Z: clamp(ai-spread, 0, nz-1)},
		{Label: "Axial mid-inf", Z: clamp(ai+spread, 0, nz-1)},
		{Label: "Axial inf", Z: clamp(ai+3*spread, 0, nz-1)},
	}
}

// SelectAxialPicks runs the pick strategies in order: vertebral level
// mid-slices first, evenly spaced slices around the center when no level is
// found, then repeating the center slice to pad out to exactly four panels.
func SelectAxialPicks(native, vert *nifti.Image, levels []int, ai int) []AxialPick {
	picks := AxialLevelPicks(vert, levels)
	if len(picks) == 0 {
		picks = EvenlySpacedPicks(native.Nz, ai)
	}
	for len(picks) < 4 {
		picks = append(picks, AxialPick{Label: "Axial", Z: ai})
	}
	picks = picks[:4]
	for i := range picks {
		picks[i].Z = clamp(picks[i].Z, 0, native.Nz-1)
	}
	return picks
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
