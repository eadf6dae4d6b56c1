// Package extract recovers a structured field set from the blocks of a
// free-form CV. Every heuristic is best effort: a miss yields a zero value,
// never an error.
package extract

// Options holds the windows and cutoffs of the heuristics. Zero fields take
// the DefaultOptions value.
type Options struct {
	// NameWindow is how many leading blocks may hold the candidate name.
	NameWindow int `json:"name_window" yaml:"name_window"`
	// LocationWindow is how many blocks after the name are searched for a place.
	LocationWindow int `json:"location_window" yaml:"location_window"`
	// LocationFallbackWindow bounds the postcode and comma-line fallback scan.
	LocationFallbackWindow int     `json:"location_fallback_window" yaml:"location_fallback_window"`
	LocationMaxLen         int     `json:"location_max_len" yaml:"location_max_len"`
	PlaceRatio             float64 `json:"place_ratio" yaml:"place_ratio"`

	SummaryMinLen int `json:"summary_min_len" yaml:"summary_min_len"`
	SummaryMaxLen int `json:"summary_max_len" yaml:"summary_max_len"`
	SummaryLines  int `json:"summary_lines" yaml:"summary_lines"`
	SummaryCap    int `json:"summary_cap" yaml:"summary_cap"`

	// FallbackBodyLines is how many lines after a date hint belong to a role
	// when no employment section exists.
	FallbackBodyLines int `json:"fallback_body_lines" yaml:"fallback_body_lines"`
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		NameWindow:             20,
		LocationWindow:         5,
		LocationFallbackWindow: 30,
		LocationMaxLen:         40,
		PlaceRatio:             0.75,
		SummaryMinLen:          30,
		SummaryMaxLen:          600,
		SummaryLines:           3,
		SummaryCap:             600,
		FallbackBodyLines:      6,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NameWindow <= 0 {
		o.NameWindow = d.NameWindow
	}
	if o.LocationWindow <= 0 {
		o.LocationWindow = d.LocationWindow
	}
	if o.LocationFallbackWindow <= 0 {
		o.LocationFallbackWindow = d.LocationFallbackWindow
	}
	if o.LocationMaxLen <= 0 {
		o.LocationMaxLen = d.LocationMaxLen
	}
	if o.PlaceRatio <= 0 {
		o.PlaceRatio = d.PlaceRatio
	}
	if o.SummaryMinLen <= 0 {
		o.SummaryMinLen = d.SummaryMinLen
	}
	if o.SummaryMaxLen <= 0 {
		o.SummaryMaxLen = d.SummaryMaxLen
	}
	if o.SummaryLines <= 0 {
		o.SummaryLines = d.SummaryLines
	}
	if o.SummaryCap <= 0 {
		o.SummaryCap = d.SummaryCap
	}
	if o.FallbackBodyLines <= 0 {
		o.FallbackBodyLines = d.FallbackBodyLines
	}
	return o
}
