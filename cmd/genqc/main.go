// Command genqc renders a multi-panel comparison figure: the native image
// plus one overlay row per segmentation method that supplied cord or canal
// masks.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"spineqc/internal/models"
	"spineqc/pkg/config"
	"spineqc/pkg/nifti"
	"spineqc/pkg/qc"
)

func main() {
	image := flag.String("image", "", "Native image (NIfTI)")
	output := flag.String("output", "", "Output PNG path")
	vertfile := flag.String("vertfile", "", "Vertebral label file for centering the view")
	title := flag.String("title", "", "Figure title")
	configPath := flag.String("config", "", "Optional YAML config file")

	maskFlags := make(map[models.Method]map[string]*string)
	for _, method := range models.Methods {
		maskFlags[method] = map[string]*string{
			"cord": flag.String(fmt.Sprintf("%s-cord", method), "",
				fmt.Sprintf("Cord segmentation for %s", method)),
			"canal": flag.String(fmt.Sprintf("%s-canal", method), "",
				fmt.Sprintf("Canal segmentation for %s", method)),
		}
	}
	flag.Parse()

	if *image == "" || *output == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	native := loadOptional(*image)
	if native == nil {
		fmt.Printf("ERROR: Cannot load native image: %s\n", *image)
		return
	}
	vert := loadOptional(*vertfile)

	var overlays []qc.MethodOverlay
	for _, method := range models.Methods {
		ov := qc.MethodOverlay{
			Name:  method,
			Cord:  loadMask(maskFlags[method]["cord"], native),
			Canal: loadMask(maskFlags[method]["canal"], native),
		}
		if ov.HasData() {
			overlays = append(overlays, ov)
		}
	}

	if len(overlays) == 0 {
		fmt.Println("WARNING: No segmentation data found for QC overlay.")
		return
	}

	fig, err := qc.RenderFigure(qc.Params{
		Native:      native,
		Vert:        vert,
		Overlays:    overlays,
		Title:       *title,
		Palette:     cfg.QC.Colors,
		AxialLevels: cfg.QC.AxialLevels,
		PanelSize:   cfg.QC.PanelSize,
	})
	if err != nil {
		log.Fatalf("Failed to render figure: %v", err)
	}

	if err := qc.SaveFigure(fig, *output); err != nil {
		log.Fatalf("Failed to save figure: %v", err)
	}
	fmt.Printf("QC figure saved: %s\n", *output)
}

// loadOptional returns nil for an empty path, a missing file, or an
// unreadable volume; callers treat nil as "not supplied".
func loadOptional(path string) *nifti.Image {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	img, err := nifti.Load(path)
	if err != nil {
		fmt.Printf("WARNING: Could not read %s: %v\n", path, err)
		return nil
	}
	return img
}

// loadMask loads an optional mask volume and drops it with a warning when
// its shape does not match the native image.
func loadMask(path *string, native *nifti.Image) *nifti.Image {
	img := loadOptional(*path)
	if img == nil {
		return nil
	}
	if img.Nx != native.Nx || img.Ny != native.Ny || img.Nz != native.Nz {
		fmt.Printf("WARNING: %s shape %dx%dx%d does not match native %dx%dx%d, skipping.\n",
			*path, img.Nx, img.Ny, img.Nz, native.Nx, native.Ny, native.Nz)
		return nil
	}
	return img
}
