// Package schema has the models shared by all parts of teamspot.
package schema

// ModuleDetails holds the changed lines per team (or per user) inside one scope.
type ModuleDetails struct {
	Changes map[string]int `json:"changes"`
}

// Total returns the sum of all changed lines in the scope.
func (m ModuleDetails) Total() int {
	total := 0
	for _, v := range m.Changes {
		total += v
	}
	return total
}

// Share returns the percentage of the scope's changes made by key.
func (m ModuleDetails) Share(key string) float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Changes[key]) / float64(total) * 100
}

// TeamAlignmentResult is the scope x team matrix of changed lines.
//
// Scopes keeps the configured order. Teams holds the column keys: team names
// sorted with UnknownTeam last, or author names when grouping by user.
type TeamAlignmentResult struct {
	Scopes  []string                 `json:"scopes"`
	Modules map[string]ModuleDetails `json:"modules"`
	Teams   []string                 `json:"teams"`
}
