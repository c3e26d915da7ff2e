// Command procspineps splits a SPINEPS semantic segmentation (60=cord,
// 61=canal) into binary masks, restricting both structures to their shared
// Z-range first.
package main

import (
	"flag"
	"fmt"
	"os"

	"spineqc/pkg/labels"
	"spineqc/pkg/nifti"
)

func main() {
	segmentation := flag.String("segmentation", "", "Input SPINEPS semantic segmentation file (_seg-spine.nii.gz)")
	cordOut := flag.String("cord", "", "Output filename for Cord mask (Label 60)")
	canalOut := flag.String("canal", "", "Output filename for Canal mask (Label 61)")
	combinedOut := flag.String("combined", "", "Output filename for Combined mask (Labels 60+61)")
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

	labels.Round(img)

	unique := labels.UniqueLabels(img)
	fmt.Printf("Labels found in input: %v\n", unique)

	if !containsLabel(unique, labels.SpinePS.Cord) {
		fmt.Println("WARNING: Label 60 (spinal cord) not found in SPINEPS segmentation.")
	}
	if !containsLabel(unique, labels.SpinePS.Canal) {
		fmt.Println("WARNING: Label 61 (spinal canal) not found in SPINEPS segmentation.")
	}

	stats := labels.RestrictToSharedZ(img, labels.SpinePS)
	if stats.Applied {
		fmt.Println("Ensuring Cord and Canal occupy the same Z-range...")
		fmt.Printf("  - Cord defined in: %d slices\n", stats.CordSlices)
		fmt.Printf("  - Canal defined in: %d slices\n", stats.CanalSlices)
		fmt.Printf("  - Intersection: %d slices\n", stats.SharedSlices)
		if stats.SharedSlices == 0 {
			fmt.Println("WARNING: Cord and Canal share NO Z-slices! All outputs will be empty.")
		}
	} else {
		fmt.Println("Note: Input does not contain both Label 60 and Label 61. Skipping Z-range intersection.")
	}

	if cordOut != "" {
		saveMask(labels.BinaryMask(img, labels.SpinePS.Cord), cordOut, "Cord (Label 60)")
	}
	if canalOut != "" {
		saveMask(labels.BinaryMask(img, labels.SpinePS.Canal), canalOut, "Canal (Label 61)")
	}
	if combinedOut != "" {
		saveMask(labels.BinaryMask(img, labels.SpinePS.Cord, labels.SpinePS.Canal),
			combinedOut, "Cord+Canal (Labels 60+61)")
	}
	return nil
}

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
