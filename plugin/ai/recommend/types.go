// Package recommend implements the recommendation chain: retrieve
// similar catalog chunks, prompt the LLM, and parse its output into a
// typed recommendation list.
package recommend

// Recommendation is one recommended anime as reported by the model.
// MatchScore is whatever the model reports; no re-ranking is done.
type Recommendation struct {
	RecommendedTitle string   `json:"recommended_title"`
	Genre            []string `json:"genre"`
	Rating           float64  `json:"rating"`
	MatchScore       float64  `json:"match_score"`
}

// Response is the terminal artifact returned to the caller.
// Error is non-nil only when Recommendations is empty.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
	Query           string           `json:"query"`
	Error           *string          `json:"error"`
}

func errorResponse(query string, err error) *Response {
	msg := err.Error()
	return &Response{
		Recommendations: []Recommendation{},
		Query:           query,
		Error:           &msg,
	}
}
