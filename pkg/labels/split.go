package labels

import (
	"math"

	"spineqc/pkg/nifti"
)

// Convention names the cord and canal label codes produced by a
// segmentation method family.
type Convention struct {
	Name  string
	Cord  int
	Canal int
}

// SCT is the Spinal Cord Toolbox multi-class convention (1=cord, 2=canal).
var SCT = Convention{Name: "SCT", Cord: 1, Canal: 2}

// SpinePS is the SPINEPS semantic segmentation convention (60=cord,
// 61=canal).
var SpinePS = Convention{Name: "SPINEPS", Cord: 60, Canal: 61}

// ZRangeStats reports the outcome of the shared Z-range restriction.
type ZRangeStats struct {
	// Applied is true when both cord and canal labels were present and the
	// restriction ran.
	Applied bool

	// CordSlices and CanalSlices count the axial slices in which each label
	// appears before restriction.
	CordSlices  int
	CanalSlices int

	// SharedSlices counts slices where both appear. Zero with Applied true
	// means every output mask will be empty.
	SharedSlices int
}

// ZPresence reports, per axial slice, whether any voxel in that slice equals
// label.
func ZPresence(img *nifti.Image, label int) []bool {
	present := make([]bool, img.Nz)
	perSlice := img.Nx * img.Ny
	for z := 0; z < img.Nz; z++ {
		base := z * perSlice
		for i := base; i < base+perSlice; i++ {
			if int(math.Round(img.Data[i])) == label {
				present[z] = true
				break
			}
		}
	}
	return present
}

// RestrictToSharedZ zeroes every axial slice in which the convention's cord
// and canal labels are not both present, across the whole volume. An
// anatomically valid segmentation has the cord inside the canal on every
// slice, so slices where only one appears are segmentation spill-over.
//
// The restriction only runs when both labels occur somewhere in the volume;
// otherwise the volume is left untouched and Applied is false — a missing
// structure is reported, never fabricated.
func RestrictToSharedZ(img *nifti.Image, conv Convention) ZRangeStats {
	hasLabel := func(label int) bool {
		for _, v := range img.Data {
			if int(math.Round(v)) == label {
				return true
			}
		}
		return false
	}
	if !hasLabel(conv.Cord) || !hasLabel(conv.Canal) {
		return ZRangeStats{}
	}

	cord := ZPresence(img, conv.Cord)
	canal := ZPresence(img, conv.Canal)

	stats := ZRangeStats{Applied: true}
	shared := make([]bool, img.Nz)
	for z := 0; z < img.Nz; z++ {
		if cord[z] {
			stats.CordSlices++
		}
		if canal[z] {
			stats.CanalSlices++
		}
		shared[z] = cord[z] && canal[z]
		if shared[z] {
			stats.SharedSlices++
		}
	}

	perSlice := img.Nx * img.Ny
	for z := 0; z < img.Nz; z++ {
		if shared[z] {
			continue
		}
		base := z * perSlice
		for i := base; i < base+perSlice; i++ {
			img.Data[i] = 0
		}
	}
	return stats
}

// BinaryMask extracts a fresh {0,1} volume marking voxels whose label equals
// any of codes. The result keeps the source geometry and has its header
// datatype forced to int16, the convention for mask files.
func BinaryMask(img *nifti.Image, codes ...int) *nifti.Image {
	out := img.Clone()
	for i, v := range img.Data {
		label := int(math.Round(v))
		match := false
		for _, code := range codes {
			if label == code {
				match = true
				break
			}
		}
		if match {
			out.Data[i] = 1
		} else {
			out.Data[i] = 0
		}
	}
	out.ForceInt16()
	return out
}
