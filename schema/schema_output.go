package schema

// EnrichedHotspot adds presentation data to a FileHotspot.
type EnrichedHotspot struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	FileHotspot
}

// GetPlainLabel returns a plain text label indicating the criticality level
// based on the hotspot score.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return "Critical"
	case score >= 60:
		return "High"
	case score >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// EnrichHotspots adds rank and label to a list of hotspots.
func EnrichHotspots(hotspots []FileHotspot) []EnrichedHotspot {
	output := make([]EnrichedHotspot, len(hotspots))
	for i, h := range hotspots {
		output[i] = EnrichedHotspot{
			Rank:        i + 1,
			Label:       GetPlainLabel(h.Score),
			FileHotspot: h,
		}
	}
	return output
}
