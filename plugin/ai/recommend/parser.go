package recommend

import (
	"encoding/json"
	"regexp"

	"github.com/pkg/errors"
)

// jsonArrayPattern extracts the outermost JSON array from prose or
// fenced output. Models occasionally wrap the payload in markdown.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// parseRecommendations coerces raw model output into a recommendation
// list. It tolerates extra text around the JSON array and skips
// individually malformed entries; it fails with ErrParse only when no
// array can be decoded at all.
func parseRecommendations(raw string) ([]Recommendation, error) {
	elements, err := decodeArray([]byte(raw))
	if err != nil {
		match := jsonArrayPattern.FindString(raw)
		if match == "" {
			return nil, errors.Wrap(ErrParse, "no JSON array in model output")
		}
		elements, err = decodeArray([]byte(match))
		if err != nil {
			return nil, errors.Wrapf(ErrParse, "invalid JSON array: %v", err)
		}
	}

	recommendations := make([]Recommendation, 0, len(elements))
	for _, element := range elements {
		var rec Recommendation
		if err := json.Unmarshal(element, &rec); err != nil {
			continue
		}
		if !valid(&rec) {
			continue
		}
		recommendations = append(recommendations, rec)
	}
	return recommendations, nil
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

func valid(rec *Recommendation) bool {
	if rec.RecommendedTitle == "" {
		return false
	}
	return rec.MatchScore >= 0 && rec.MatchScore <= 1
}
