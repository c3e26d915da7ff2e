// Command parseresults aggregates per-subject CSA/aSCOR CSVs into one wide
// summary table per method-* directory and measure type.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"spineqc/internal/models"
	"spineqc/pkg/config"
	"spineqc/pkg/results"
)

func main() {
	directory := flag.String("directory", "", "Path to the results directory containing method-* subdirectories")
	info := flag.String("info", "MEAN(area)", "Column name to extract from per-subject CSVs")
	output := flag.String("output", "", "Output directory for summary CSVs (default: same as --directory)")
	configPath := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	if *directory == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// An explicit --info wins over the config file.
	infoColumn := cfg.Results.InfoColumn
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "info" {
			infoColumn = *info
		}
	})

	outputDir := *output
	if outputDir == "" {
		outputDir = *directory
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	methodDirs, err := results.DiscoverMethodDirs(*directory)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", *directory, err)
	}
	if len(methodDirs) == 0 {
		fmt.Printf("No method-* directories found in %s\n", *directory)
		return
	}

	for _, method := range methodDirs {
		methodPath := filepath.Join(*directory, method)
		fmt.Printf("\nProcessing: %s\n", method)

		for _, measureType := range models.MeasureTypes {
			table := results.ParseMethodDir(methodPath, infoColumn, measureType)
			if table.Empty() {
				continue
			}

			outFile := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", method, measureType))
			if err := table.WriteCSV(outFile); err != nil {
				log.Fatalf("Failed to write %s: %v", outFile, err)
			}
			fmt.Printf("  %s: %d subjects -> %s\n", measureType, len(table.Rows), outFile)
		}
	}
}
