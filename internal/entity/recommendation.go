package entity

import "strings"

type Recommendation struct {
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Reason     string  `json:"reason,omitempty"`
	Confidence float64 `json:"confidence"`
}

func (r Recommendation) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && strings.TrimSpace(r.Author) != ""
}
