// Command filterdisc removes disc labels outside the PAM50 template range
// (keeping 1..max-label and 60) from a labeled volume.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"spineqc/pkg/labels"
	"spineqc/pkg/nifti"
)

func main() {
	input := flag.String("input", "", "Input disc label file (nii or nii.gz)")
	output := flag.String("output", "", "Output path for the filtered labels")
	maxLabel := flag.Int("max-label", 21, "Highest disc label to keep (60 is always kept)")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}

	img, err := nifti.Load(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	removed := labels.FilterRange(img, *maxLabel)
	if len(removed) > 0 {
		fmt.Printf("Removing out-of-range disc labels: %v\n", removed)
	}

	if err := img.Save(*output); err != nil {
		log.Fatalf("Failed to save %s: %v", *output, err)
	}
	fmt.Printf("Filtered disc labels saved: %s\n", *output)
}
