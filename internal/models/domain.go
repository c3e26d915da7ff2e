package models

// View identifies an anatomical viewing plane through a volume.
type View int

const (
	// Sagittal slices run parallel to the y-z plane (fixed x).
	Sagittal View = iota

	// Coronal slices run parallel to the x-z plane (fixed y).
	Coronal

	// Axial slices run parallel to the x-y plane (fixed z).
	Axial
)

// Method names a segmentation method whose outputs the tools compare.
type Method string

// The closed set of methods under review. Order is the display order in
// QC figures.
const (
	TotalSpineSeg Method = "totalspineseg"
	SpinePS       Method = "spineps"
	CustomAtlas   Method = "custom-atlas"
	PAM50         Method = "pam50"
)

// Methods lists all known methods in display order.
var Methods = []Method{TotalSpineSeg, SpinePS, CustomAtlas, PAM50}

// MeasureType distinguishes the per-subject measurement tables produced for
// each method.
type MeasureType string

const (
	// MeasureCord is the cord cross-sectional area table (CSA).
	MeasureCord MeasureType = "cord"

	// MeasureCanal is the canal cross-sectional area table.
	MeasureCanal MeasureType = "canal"

	// MeasureRatio is the cord/canal area ratio table (aSCOR).
	MeasureRatio MeasureType = "ratio"
)

// MeasureTypes lists the measure-type suffixes the aggregator scans for.
var MeasureTypes = []MeasureType{MeasureCord, MeasureCanal, MeasureRatio}
