package labels

import (
	"math"

	"spineqc/pkg/nifti"
)

// MapEntry is one row of a relabeling table.
type MapEntry struct {
	Old int
	New int
}

// VertebralMap converts TotalSpineSeg vertebral level codes to the SCT
// convention. Codes absent from the table are dropped to background. The
// table is ordered for reporting; treat it as read-only.
var VertebralMap = []MapEntry{
	// Cervical: TotalSpineSeg 11-17 -> SCT 1-7
	{11, 1}, {12, 2}, {13, 3}, {14, 4}, {15, 5}, {16, 6}, {17, 7},
	// Thoracic: TotalSpineSeg 21-32 -> SCT 8-19
	{21, 8}, {22, 9}, {23, 10}, {24, 11}, {25, 12}, {26, 13},
	{27, 14}, {28, 15}, {29, 16}, {30, 17}, {31, 18}, {32, 19},
	// Lumbar: TotalSpineSeg 41-45 -> SCT 20-24
	{41, 20}, {42, 21}, {43, 22}, {44, 23}, {45, 24},
	// Sacrum: TotalSpineSeg 50 -> SCT 25
	{50, 25},
}

// Relabel maps every voxel through the table into a fresh all-zero volume
// with the same geometry. Voxels whose value is not an Old code in the table
// become 0. The returned counts slice is aligned with the table: counts[i]
// is the number of voxels relabeled by table[i] (zero when the old code is
// absent from the image, which is expected for anatomy outside the field of
// view).
func Relabel(img *nifti.Image, table []MapEntry) (*nifti.Image, []int) {
	out := img.Clone()
	for i := range out.Data {
		out.Data[i] = 0
	}

	counts := make([]int, len(table))
	for ti, entry := range table {
		n := 0
		for i, v := range img.Data {
			if int(math.Round(v)) == entry.Old {
				out.Data[i] = float64(entry.New)
				n++
			}
		}
		counts[ti] = n
	}
	return out, counts
}
