// Command procseg splits an SCT multi-label segmentation (1=cord, 2=canal)
// into binary masks, restricting both structures to their shared Z-range
// first.
package main

import (
	"flag"
	"fmt"
	"os"

	"spineqc/pkg/labels"
	"spineqc/pkg/nifti"
)

func main() {
	segmentation := flag.String("segmentation", "", "Input multi-label segmentation file")
	cordOut := flag.String("cord", "", "Output filename for Cord mask (Label 1)")
	canalOut := flag.String("canal", "", "Output filename for Canal mask (Label 2)")
	combinedOut := flag.String("combined", "", "Output filename for Combined mask (Labels 1+2)")
	flag.Parse()

	if *segmentation == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*segmentation, *cordOut, *canalOut, *combinedOut); err != nil {
		fmt.Printf("Error processing file: %v\n", err)
		os.Exit(1)
	}
}

func run(inputFile, cordOut, canalOut, combinedOut string) error {
	fmt.Printf("Loading: %s\n", inputFile)

	img, err := nifti.Load(inputFile)
	if err != nil {
		return err
	}

	// Round away float fuzz (e.g. 1.0001 -> 1) before any label comparison.
	labels.Round(img)

	unique := labels.UniqueLabels(img)
	fmt.Printf("Labels found in input: %v\n", unique)

	// Common mix-up: SCT's own convention uses 50 for the cord.
	if !containsLabel(unique, labels.SCT.Cord) && containsLabel(unique, 50) {
		fmt.Println("WARNING: Label 1 not found, but 50 found. Did you mean to use the SCT default (50=Cord)?")
	}

	reportZRestriction(img, labels.SCT)

	if cordOut != "" {
		saveMask(labels.BinaryMask(img, labels.SCT.Cord), cordOut, "Cord (Label 1)")
	}
	if canalOut != "" {
		saveMask(labels.BinaryMask(img, labels.SCT.Canal), canalOut, "Canal (Label 2)")
	}
	if combinedOut != "" {
		saveMask(labels.BinaryMask(img, labels.SCT.Cord, labels.SCT.Canal),
			combinedOut, "Cord+Canal (Labels 1+2)")
	}
	return nil
}

// reportZRestriction applies the shared Z-range restriction and narrates the
// outcome.
func reportZRestriction(img *nifti.Image, conv labels.Convention) {
	stats := labels.RestrictToSharedZ(img, conv)
	if !stats.Applied {
		fmt.Printf("Note: Input does not contain both Label %d and Label %d. Skipping Z-range intersection.\n",
			conv.Cord, conv.Canal)
		return
	}
	fmt.Println("Ensuring Cord and Canal occupy the same Z-range...")
	fmt.Printf("  - Cord defined in: %d slices\n", stats.CordSlices)
	fmt.Printf("  - Canal defined in: %d slices\n", stats.CanalSlices)
	fmt.Printf("  - Intersection: %d slices\n", stats.SharedSlices)
	if stats.SharedSlices == 0 {
		fmt.Println("WARNING: Cord and Canal share NO Z-slices! All outputs will be empty.")
	}
}

// saveMask writes a binary mask, warning when it is empty. A write failure
// is fatal; files already written stay on disk.
func saveMask(mask *nifti.Image, outputFile, desc string) {
	voxels := labels.VoxelSum(mask)
	if voxels == 0 {
		fmt.Printf("WARNING: Output mask for %s is empty!\n", desc)
	} else {
		fmt.Printf("Saving %s: %s (voxels: %d)\n", desc, outputFile, voxels)
	}
	if err := mask.Save(outputFile); err != nil {
		fmt.Printf("Error processing file: %v\n", err)
		os.Exit(1)
	}
}

func containsLabel(set []int, label int) bool {
	for _, v := range set {
		if v == label {
			return true
		}
	}
	return false
}
