package qc

import (
	"testing"

	"spineqc/pkg/nifti"
)

// TestCenterIndicesGeometric verifies the fallback to the volume center when
// no vertebral volume is supplied.
func TestCenterIndicesGeometric(t *testing.T) {
	native := nifti.New(10, 20, 30)

	si, ci, ai := CenterIndices(native, nil)

	if si != 5 || ci != 10 || ai != 15 {
		t.Errorf("Expected center (5, 10, 15), got (%d, %d, %d)", si, ci, ai)
	}
}

// TestCenterIndicesCentroid verifies centering on the labeled voxels when a
// vertebral volume is present.
func TestCenterIndicesCentroid(t *testing.T) {
	native := nifti.New(10, 10, 10)
	vert := nifti.New(10, 10, 10)
	vert.SetAt(2, 4, 6, 1)
	vert.SetAt(4, 6, 8, 2)

	si, ci, ai := CenterIndices(native, vert)

	if si != 3 || ci != 5 || ai != 7 {
		t.Errorf("Expected centroid (3, 5, 7), got (%d, %d, %d)", si, ci, ai)
	}
}

// TestCenterIndicesEmptyVert verifies that an all-zero vertebral volume
// falls back to the geometric center.
func TestCenterIndicesEmptyVert(t *testing.T) {
	native := nifti.New(8, 8, 8)
	vert := nifti.New(8, 8, 8)

	si, ci, ai := CenterIndices(native, vert)

	if si != 4 || ci != 4 || ai != 4 {
		t.Errorf("Expected geometric center (4, 4, 4), got (%d, %d, %d)", si, ci, ai)
	}
}

// TestAxialLevelPicks verifies the mid-slice choice per level and that
// absent levels contribute nothing.
func TestAxialLevelPicks(t *testing.T) {
	vert := nifti.New(4, 4, 20)
	for z := 4; z <= 8; z++ {
		vert.SetAt(1, 1, z, 2)
	}
	for z := 10; z <= 12; z++ {
		vert.SetAt(1, 1, z, 3)
	}

	picks := AxialLevelPicks(vert, []int{1, 2, 3, 4})

	if len(picks) != 2 {
		t.Fatalf("Expected 2 picks, got %d", len(picks))
	}
	if picks[0].Label != "Axial C2" || picks[0].Z != 6 {
		t.Errorf("Expected (Axial C2, 6), got (%s, %d)", picks[0].Label, picks[0].Z)
	}
	if picks[1].Label != "Axial C3" || picks[1].Z != 11 {
		t.Errorf("Expected (Axial C3, 11), got (%s, %d)", picks[1].Label, picks[1].Z)
	}
}

// TestSelectAxialPicksFallback verifies the evenly spaced strategy when no
// vertebral volume is available.
func TestSelectAxialPicksFallback(t *testing.T) {
	native := nifti.New(4, 4, 32)

	picks := SelectAxialPicks(native, nil, []int{1, 2, 3, 4}, 16)

	if len(picks) != 4 {
		t.Fatalf("Expected 4 picks, got %d", len(picks))
	}
	expectedZ := []int{4, 12, 20, 28}
	expectedLabels := []string{"Axial sup", "Axial mid-sup", "Axial mid-inf", "Axial inf"}
	for i := range picks {
		if picks[i].Z != expectedZ[i] || picks[i].Label != expectedLabels[i] {
			t.Errorf("Pick %d: expected (%s, %d), got (%s, %d)",
				i, expectedLabels[i], expectedZ[i], picks[i].Label, picks[i].Z)
		}
	}
}

// TestSelectAxialPicksPadding verifies repeat-to-pad when fewer than four
// levels are found.
func TestSelectAxialPicksPadding(t *testing.T) {
	native := nifti.New(4, 4, 20)
	vert := nifti.New(4, 4, 20)
	vert.SetAt(0, 0, 5, 1)

	picks := SelectAxialPicks(native, vert, []int{1, 2, 3, 4}, 10)

	if len(picks) != 4 {
		t.Fatalf("Expected 4 picks, got %d", len(picks))
	}
	if picks[0].Label != "Axial C1" || picks[0].Z != 5 {
		t.Errorf("Expected first pick (Axial C1, 5), got (%s, %d)", picks[0].Label, picks[0].Z)
	}
	for i := 1; i < 4; i++ {
		if picks[i].Label != "Axial" || picks[i].Z != 10 {
			t.Errorf("Pick %d: expected padding (Axial, 10), got (%s, %d)",
				i, picks[i].Label, picks[i].Z)
		}
	}
}

// TestViewAspects verifies the per-view aspect ratios and the unit fallback.
func TestViewAspects(t *testing.T) {
	sag, cor, ax := ViewAspects([3]float64{0.5, 0.5, 4.0})
	if sag != 8.0 || cor != 8.0 || ax != 1.0 {
		t.Errorf("Expected aspects (8, 8, 1), got (%f, %f, %f)", sag, cor, ax)
	}

	sag, cor, ax = ViewAspects([3]float64{0, 1, 1})
	if sag != 1 || cor != 1 || ax != 1 {
		t.Errorf("Expected unit aspects for missing spacing, got (%f, %f, %f)", sag, cor, ax)
	}
}
