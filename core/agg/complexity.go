package agg

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/huangsam/teamspot/schema"
)

// decisionRe matches branch points across C-like languages. "?." and "??"
// are matched so they can be told apart from the ternary operator.
var decisionRe = regexp.MustCompile(`\b(?:if|for|while|case|catch)\b|&&|\|\||\?\?|\?\.|\?`)

// MeasureComplexity scores file content with the given metric.
//
// length counts lines. mccabe approximates cyclomatic complexity as one plus
// the number of decision points.
func MeasureComplexity(metric schema.ComplexityMetric, content []byte) (int, error) {
	switch metric {
	case schema.LengthMetric, "":
		return countLines(content), nil
	case schema.McCabeMetric:
		return countDecisions(content) + 1, nil
	default:
		return 0, fmt.Errorf("unknown complexity metric: %s", metric)
	}
}

// countLines counts newline characters plus an unterminated last line.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}

func countDecisions(content []byte) int {
	n := 0
	for _, m := range decisionRe.FindAll(content, -1) {
		switch string(m) {
		case "?.":
			continue
		default:
			n++
		}
	}
	return n
}
