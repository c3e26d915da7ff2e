package labels

import (
	"testing"

	"spineqc/pkg/nifti"
)

// TestFilterRange verifies that labels outside {1..maxLabel, 60} are zeroed
// and reported, while in-range labels survive.
func TestFilterRange(t *testing.T) {
	img := nifti.New(4, 1, 1)
	img.Data = []float64{3, 21, 22, 60}

	removed := FilterRange(img, 21)

	if len(removed) != 1 || removed[0] != 22 {
		t.Errorf("Expected removed labels [22], got %v", removed)
	}
	expected := []float64{3, 21, 0, 60}
	for i, want := range expected {
		if img.Data[i] != want {
			t.Errorf("Voxel %d: expected %f, got %f", i, want, img.Data[i])
		}
	}
}

// TestFilterRangeNoOp verifies that an in-range volume passes through
// unchanged with nothing reported.
func TestFilterRangeNoOp(t *testing.T) {
	img := nifti.New(3, 1, 1)
	img.Data = []float64{0, 1, 60}

	removed := FilterRange(img, 21)

	if len(removed) != 0 {
		t.Errorf("Expected no removed labels, got %v", removed)
	}
	expected := []float64{0, 1, 60}
	for i, want := range expected {
		if img.Data[i] != want {
			t.Errorf("Voxel %d: expected %f, got %f", i, want, img.Data[i])
		}
	}
}

// TestFilterRangeIdempotent verifies that filtering twice equals filtering
// once.
func TestFilterRangeIdempotent(t *testing.T) {
	img := nifti.New(5, 1, 1)
	img.Data = []float64{0, 5, 25, 60, 99}

	FilterRange(img, 21)
	once := make([]float64, len(img.Data))
	copy(once, img.Data)

	removed := FilterRange(img, 21)
	if len(removed) != 0 {
		t.Errorf("Second filter pass removed labels %v, expected none", removed)
	}
	for i := range once {
		if img.Data[i] != once[i] {
			t.Errorf("Voxel %d changed on second pass: %f -> %f", i, once[i], img.Data[i])
		}
	}
}

// TestFilterRangeRoundsFloats verifies that float fuzz is snapped to integer
// labels before the range test.
func TestFilterRangeRoundsFloats(t *testing.T) {
	img := nifti.New(2, 1, 1)
	img.Data = []float64{1.0001, 21.9999}

	removed := FilterRange(img, 21)
	if len(removed) != 1 || removed[0] != 22 {
		t.Errorf("Expected 21.9999 to round to removed label 22, got %v", removed)
	}
	if img.Data[0] != 1 {
		t.Errorf("Expected 1.0001 to round to kept label 1, got %f", img.Data[0])
	}
}

// TestUniqueLabels verifies sorted distinct label extraction.
func TestUniqueLabels(t *testing.T) {
	img := nifti.New(6, 1, 1)
	img.Data = []float64{0, 2, 2, 60, 1, 1}

	got := UniqueLabels(img)
	expected := []int{0, 1, 2, 60}
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, got)
			break
		}
	}
}
