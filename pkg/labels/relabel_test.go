package labels

import (
	"testing"

	"spineqc/pkg/nifti"
)

// TestRelabelKnownCounts verifies the mapping example: voxel counts carry
// over to the new codes and everything else becomes background.
func TestRelabelKnownCounts(t *testing.T) {
	img := nifti.New(160, 1, 1)
	for i := 0; i < 100; i++ {
		img.Data[i] = 11
	}
	for i := 100; i < 150; i++ {
		img.Data[i] = 21
	}
	for i := 150; i < 160; i++ {
		img.Data[i] = 50
	}

	out, counts := Relabel(img, VertebralMap)

	if got := CountLabel(out, 1); got != 100 {
		t.Errorf("Expected 100 voxels at new code 1, got %d", got)
	}
	if got := CountLabel(out, 8); got != 50 {
		t.Errorf("Expected 50 voxels at new code 8, got %d", got)
	}
	if got := CountLabel(out, 25); got != 10 {
		t.Errorf("Expected 10 voxels at new code 25, got %d", got)
	}

	// Counts align with the table order: 11 is entry 0, 21 is entry 7,
	// 50 is the last entry.
	if counts[0] != 100 {
		t.Errorf("Expected counts[0]=100 for old code 11, got %d", counts[0])
	}
	if counts[7] != 50 {
		t.Errorf("Expected counts[7]=50 for old code 21, got %d", counts[7])
	}
	if counts[len(counts)-1] != 10 {
		t.Errorf("Expected last count 10 for old code 50, got %d", counts[len(counts)-1])
	}
}

// TestRelabelTotality verifies that unmapped codes drop to 0 and mapped
// codes always land on their table value.
func TestRelabelTotality(t *testing.T) {
	img := nifti.New(5, 1, 1)
	img.Data = []float64{0, 11, 99, 45, 7}

	out, _ := Relabel(img, VertebralMap)

	expected := []float64{0, 1, 0, 24, 0}
	for i, want := range expected {
		if out.Data[i] != want {
			t.Errorf("Voxel %d (input %f): expected %f, got %f",
				i, img.Data[i], want, out.Data[i])
		}
	}
}

// TestRelabelMissingLabelCounts verifies that absent old codes report a zero
// count rather than failing.
func TestRelabelMissingLabelCounts(t *testing.T) {
	img := nifti.New(2, 1, 1)
	img.Data = []float64{11, 11}

	_, counts := Relabel(img, VertebralMap)

	if counts[0] != 2 {
		t.Errorf("Expected counts[0]=2, got %d", counts[0])
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] != 0 {
			t.Errorf("Expected counts[%d]=0 for absent code %d, got %d",
				i, VertebralMap[i].Old, counts[i])
		}
	}
}

// TestRelabelPreservesInput verifies the source volume is untouched.
func TestRelabelPreservesInput(t *testing.T) {
	img := nifti.New(2, 1, 1)
	img.Data = []float64{11, 50}

	Relabel(img, VertebralMap)

	if img.Data[0] != 11 || img.Data[1] != 50 {
		t.Errorf("Input volume mutated: got %v", img.Data)
	}
}

// TestVertebralMapShape sanity-checks the fixed table: 25 entries covering
// cervical, thoracic, lumbar and sacral codes with contiguous new codes.
func TestVertebralMapShape(t *testing.T) {
	if len(VertebralMap) != 25 {
		t.Fatalf("Expected 25 mapping entries, got %d", len(VertebralMap))
	}
	for i, entry := range VertebralMap {
		if entry.New != i+1 {
			t.Errorf("Entry %d: expected new code %d, got %d", i, i+1, entry.New)
		}
	}
}
