// Package labels implements the elementwise label operations shared by the
// segmentation post-processing tools: range filtering, vertebral relabeling,
// and cord/canal mask splitting with shared Z-range enforcement.
package labels

import (
	"math"
	"sort"

	"spineqc/pkg/nifti"
)

// Round snaps every voxel to the nearest integer in place. Segmentation
// labels are discrete, but resampling can leave float fuzz (1.0001 -> 1).
func Round(img *nifti.Image) {
	for i, v := range img.Data {
		img.Data[i] = math.Round(v)
	}
}

// UniqueLabels returns the sorted distinct integer labels present in the
// volume, including 0 if any background voxel exists.
func UniqueLabels(img *nifti.Image) []int {
	seen := make(map[int]struct{})
	for _, v := range img.Data {
		seen[int(math.Round(v))] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Ints(out)
	return out
}

// VoxelSum returns the sum of all voxel values, rounded to the nearest
// integer. For a binary mask this is the foreground voxel count.
func VoxelSum(img *nifti.Image) int {
	var sum float64
	for _, v := range img.Data {
		sum += v
	}
	return int(math.Round(sum))
}

// CountLabel returns the number of voxels equal to label.
func CountLabel(img *nifti.Image, label int) int {
	n := 0
	for _, v := range img.Data {
		if int(math.Round(v)) == label {
			n++
		}
	}
	return n
}

// FilterRange zeroes every voxel whose label falls outside the valid set
// {1..maxLabel} union {60}. Background (0) is untouched. The volume is
// rounded to integers as a side effect. Returns the sorted list of removed
// label values; an empty slice means the volume was already in range.
func FilterRange(img *nifti.Image, maxLabel int) []int {
	Round(img)

	valid := func(label int) bool {
		return (label >= 1 && label <= maxLabel) || label == 60
	}

	removedSet := make(map[int]struct{})
	for _, v := range img.Data {
		label := int(v)
		if label != 0 && !valid(label) {
			removedSet[label] = struct{}{}
		}
	}
	if len(removedSet) == 0 {
		return nil
	}

	for i, v := range img.Data {
		label := int(v)
		if label != 0 && !valid(label) {
			img.Data[i] = 0
		}
	}

	removed := make([]int, 0, len(removedSet))
	for label := range removedSet {
		removed = append(removed, label)
	}
	sort.Ints(removed)
	return removed
}
