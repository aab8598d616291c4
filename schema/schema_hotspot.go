package schema

// FileHotspot is a file ranked by how often it changes and how complex it is.
type FileHotspot struct {
	Path       string  `json:"path"`
	Commits    int     `json:"commits"`
	Churn      int     `json:"churn"`
	Complexity int     `json:"complexity"`
	Score      float64 `json:"score"` // 0-100, relative to the top file
}

// AggregatedHotspot counts the hotspots of one scope.
type AggregatedHotspot struct {
	Scope    string  `json:"scope"`
	Count    int     `json:"count"`
	MaxScore float64 `json:"maxScore"`
}

// HotspotCriteria narrows a hotspot list.
type HotspotCriteria struct {
	Metric   ComplexityMetric `json:"metric"`
	MinScore float64          `json:"minScore"`
	Module   string           `json:"module"` // path prefix, empty means all
}
