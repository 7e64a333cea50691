// Package aruco implements detection of square fiducial markers in
// grayscale images.
package aruco

// Parameters control candidate extraction and decoding. The zero
// value is not usable; start from DefaultParameters.
type Parameters struct {
	// Adaptive thresholding window and constant for candidate
	// extraction.
	AdaptiveThreshWinSize  int
	AdaptiveThreshConstant int

	// Candidate filtering, all rates relative to the larger image
	// dimension or the candidate perimeter.
	MinMarkerPerimeterRate      float64
	MaxMarkerPerimeterRate      float64
	PolygonalApproxAccuracyRate float64
	MinCornerDistanceRate       float64
	MinDistanceToBorder         int

	// Bit extraction.
	MarkerBorderBits              int
	PerspectiveRemovePixelPerCell int
	MaxErroneousBitsInBorderRate  float64

	// Fraction of the dictionary's correction capability to spend.
	ErrorCorrectionRate float64

	// Decode the inverted patch as well, for white-on-black markers.
	DetectInvertedMarker bool

	// Subpixel corner refinement. A window size of zero disables it.
	CornerRefinementWinSize       int
	CornerRefinementMaxIterations int
	CornerRefinementMinAccuracy   float64
}

func DefaultParameters() *Parameters {
	return &Parameters{
		AdaptiveThreshWinSize:  23,
		AdaptiveThreshConstant: 7,

		MinMarkerPerimeterRate:      0.03,
		MaxMarkerPerimeterRate:      4.0,
		PolygonalApproxAccuracyRate: 0.03,
		MinCornerDistanceRate:       0.05,
		MinDistanceToBorder:         3,

		MarkerBorderBits:              1,
		PerspectiveRemovePixelPerCell: 4,
		MaxErroneousBitsInBorderRate:  0.35,

		ErrorCorrectionRate: 0.6,

		CornerRefinementWinSize:       5,
		CornerRefinementMaxIterations: 30,
		CornerRefinementMinAccuracy:   0.1,
	}
}
