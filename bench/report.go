package bench

import (
	"fmt"
	"io"
	"strings"
)

const rule = "------------------------------------------------------------"

// WriteConfigs lists every configuration and its settings.
func WriteConfigs(w io.Writer, cfgs []Config) {
	fmt.Fprintln(w, "Configuration Details:")
	fmt.Fprintln(w, rule)
	for _, c := range cfgs {
		fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(c.Name))
		fmt.Fprintf(w, "  use_clahe: %v\n", c.UseCLAHE)
		fmt.Fprintf(w, "  use_bilateral: %v\n", c.UseBilateral)
		fmt.Fprintf(w, "  use_multi_threshold: %v\n", c.UseMultiThreshold)
		fmt.Fprintf(w, "  adaptive_thresh_constant: %d\n", c.AdaptiveThreshConstant)
		fmt.Fprintf(w, "  corner_refinement_max_iterations: %d\n", c.CornerRefinementMaxIterations)
	}
}

// WriteResults prints the measurement table.
func WriteResults(w io.Writer, results []Result) {
	fmt.Fprintln(w, "Results:")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-15s %-10s %-12s %-10s\n", "Configuration", "Markers", "Time (ms)", "FPS")
	fmt.Fprintln(w, rule)
	for _, r := range results {
		fmt.Fprintf(w, "%-15s %-10d %-12.2f %-10.1f\n", r.Config, r.Markers, r.TimeMS, r.FPS)
	}
}

// WriteImprovements prints each configuration's delta against the
// first result.
func WriteImprovements(w io.Writer, results []Result) {
	if len(results) < 2 {
		return
	}
	fmt.Fprintln(w, "Improvements vs Original:")
	fmt.Fprintln(w, rule)
	base := results[0]
	for _, r := range results[1:] {
		overhead := r.TimeMS - base.TimeMS
		percent := 0.0
		if base.TimeMS > 0 {
			percent = overhead / base.TimeMS * 100
		}
		sign := ""
		if r.Markers > base.Markers {
			sign = "+"
		}
		fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(r.Config))
		fmt.Fprintf(w, "  Markers detected: %d (%s%d)\n", r.Markers, sign, r.Markers-base.Markers)
		fmt.Fprintf(w, "  Processing time: +%.2fms (+%.1f%%)\n", overhead, percent)
		fmt.Fprintf(w, "  Still achieves %.1f FPS\n", r.FPS)
	}
}

// WriteRecommendations prints the fixed usage guidance.
func WriteRecommendations(w io.Writer) {
	fmt.Fprintln(w, "Recommendations:")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "• Use 'optimized' for best balance (good detection, acceptable speed)")
	fmt.Fprintln(w, "• Use 'maximum' for challenging conditions (low light, motion blur)")
	fmt.Fprintln(w, "• Use 'original' only if processing time is critical and lighting is perfect")
}
