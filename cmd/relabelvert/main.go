// Command relabelvert remaps TotalSpineSeg vertebral level codes (C1-C7,
// T1-T12, L1-L5, S1) to the SCT convention. Codes outside the mapping table
// become background.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"spineqc/pkg/labels"
	"spineqc/pkg/nifti"
)

func main() {
	mask := flag.String("mask", "", "Path to the input segmentation/label file (nii or nii.gz)")
	out := flag.String("out", "", "Path to save the output file. Defaults to <input>_relabeled.nii.gz")
	flag.Parse()

	if *mask == "" {
		flag.Usage()
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = defaultOutPath(*mask)
	}

	fmt.Printf("Loading: %s\n", *mask)
	img, err := nifti.Load(*mask)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *mask, err)
	}

	fmt.Println("Relabeling...")
	relabeled, counts := labels.Relabel(img, labels.VertebralMap)
	for i, entry := range labels.VertebralMap {
		if counts[i] > 0 {
			fmt.Printf("  - Mapped %d -> %d (%d voxels)\n", entry.Old, entry.New, counts[i])
		} else {
			fmt.Printf("  - Warning: Label %d not found in image.\n", entry.Old)
		}
	}

	if err := relabeled.Save(outPath); err != nil {
		log.Fatalf("Failed to save %s: %v", outPath, err)
	}
	fmt.Printf("Saved relabeled file to: %s\n", outPath)
}

// defaultOutPath derives <input>_relabeled.<ext>, treating .nii.gz as one
// extension.
func defaultOutPath(input string) string {
	switch {
	case strings.HasSuffix(input, ".nii.gz"):
		return strings.TrimSuffix(input, ".nii.gz") + "_relabeled.nii.gz"
	case strings.HasSuffix(input, ".nii"):
		return strings.TrimSuffix(input, ".nii") + "_relabeled.nii"
	default:
		ext := filepath.Ext(input)
		return strings.TrimSuffix(input, ext) + "_relabeled" + ext
	}
}
