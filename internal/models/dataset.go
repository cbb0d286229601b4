package models

// Dataset holds the values for one bullet sub-chart.
// MaxResults drive the background bands, Results drive both the bars and
// the target markers. RLabels name the results by position.
type Dataset struct {
	MaxResults []float64 `json:"maxresults" yaml:"maxresults"`
	Results    []float64 `json:"results" yaml:"results"`
	RLabels    []string  `json:"rlabels,omitempty" yaml:"rlabels,omitempty"`
}
