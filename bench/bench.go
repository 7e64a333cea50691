// Package bench compares marker detection across preprocessing
// configurations: how many markers each finds on the same frame and
// what the extra processing costs.
package bench

import (
	"image"
	"time"

	"arucam.dev/aruco"
	"arucam.dev/filter"
	"arucam.dev/threshold"
	"arucam.dev/xoshiro256"
)

// A Config names one preprocessing and detection setup.
type Config struct {
	Name string

	UseCLAHE          bool
	UseBilateral      bool
	UseMultiThreshold bool

	AdaptiveThreshConstant        int
	CornerRefinementMaxIterations int
}

// Configs returns the three stock configurations, in the order they
// are benchmarked. The first is the baseline the others are compared
// against.
func Configs() []Config {
	return []Config{
		{
			Name:                          "original",
			AdaptiveThreshConstant:        7,
			CornerRefinementMaxIterations: 30,
		},
		{
			Name:                          "optimized",
			UseCLAHE:                      true,
			UseMultiThreshold:             true,
			AdaptiveThreshConstant:        5,
			CornerRefinementMaxIterations: 60,
		},
		{
			Name:                          "maximum",
			UseCLAHE:                      true,
			UseBilateral:                  true,
			UseMultiThreshold:             true,
			AdaptiveThreshConstant:        5,
			CornerRefinementMaxIterations: 80,
		},
	}
}

/// Parameters returns the detector parameters for the configuration:
// the shared tuned base with the per-config knobs applied.
func (c Config) Parameters() *aruco.Parameters {
	p := aruco.DefaultParameters()
	p.MinMarkerPerimeterRate = 0.01
	p.MaxMarkerPerimeterRate = 4.0
	p.PolygonalApproxAccuracyRate = 0.03
	p.MinCornerDistanceRate = 0.03
	p.CornerRefinementWinSize = 5
	p.CornerRefinementMinAccuracy = 0.01
	p.ErrorCorrectionRate = 0.6
	p.DetectInvertedMarker = true
	p.AdaptiveThreshConstant = c.AdaptiveThreshConstant
	p.CornerRefinementMaxIterations = c.CornerRefinementMaxIterations
	return p
}

// Preprocess applies the configuration's filters to the frame.
func (c Config) Preprocess(g *image.Gray) *image.Gray {
	out := g
	if c.UseCLAHE {
		out = filter.CLAHE(out, 2.0, image.Point{8, 8})
	}
	if c.UseBilateral {
		out = filter.Bilateral(out, 5, 50, 50)
	}
	return out
}

// Detect runs one full detection pass under the configuration. With
// multi-threshold enabled the Otsu-binarized frame gets a second
// pass and new marker IDs are merged in.
func (c Config) Detect(det *aruco.Detector, g *image.Gray) []aruco.Detection {
	processed := c.Preprocess(g)
	dets := det.Detect(processed)
	if !c.UseMultiThreshold {
		return dets
	}
	seen := make(map[int]bool, len(dets))
	for _, d := range dets {
		seen[d.ID] = true
	}
	for _, d := range det.Detect(threshold.Otsu(processed)) {
		if !seen[d.ID] {
			seen[d.ID] = true
			dets = append(dets, d)
		}
	}
	return dets
}

// A Result is the measured performance of one configuration.
type Result struct {
	Config  string
	Markers int
	TimeMS  float64
	FPS     float64
}

// Options tune a benchmark run.
type Options struct {
	Warmup     int
	Iterations int
}

func (o Options) withDefaults() Options {
	if o.Warmup == 0 {
		o.Warmup = 3
	}
	if o.Iterations == 0 {
		o.Iterations = 10
	}
	return o
}

// Run measures the configuration on the frame: a few warmup passes,
// then the mean over the timed iterations.
func Run(g *image.Gray, dict *aruco.Dictionary, c Config, opts Options) Result {
	opts = opts.withDefaults()
	det := aruco.NewDetector(dict, c.Parameters())
	for i := 0; i < opts.Warmup; i++ {
		c.Detect(det, g)
	}
	var dets []aruco.Detection
	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		dets = c.Detect(det, g)
	}
	elapsed := time.Since(start).Seconds() / float64(opts.Iterations) * 1000
	res := Result{
		Config:  c.Name,
		Markers: len(dets),
		TimeMS:  elapsed,
	}
	if elapsed > 0 {
		res.FPS = 1000 / elapsed
	}
	return res
}

// TestFrame builds the deterministic noise frame used when no camera
// is available.
func TestFrame() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 640, 480))
	rng := xoshiro256.New(0xf7a3e)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}
