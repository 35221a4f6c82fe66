package model

import "sort"

// Origin tags how a question entered the bank.
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginHarvested Origin = "harvested"
)

// OptionLabels is the ordered set of valid answer labels. Option E is optional;
// A through D are mandatory.
var OptionLabels = []string{"A", "B", "C", "D", "E"}

// Question is one multiple-choice item in the bank. Identity is immutable once
// stored; only the explanation and a missing fingerprint may be updated later.
type Question struct {
	ID          int               `json:"id"`
	PositionID  *int              `json:"position_id,omitempty"`
	Statement   string            `json:"statement"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct"`
	Subject     string            `json:"subject"`
	Board       string            `json:"board,omitempty"`
	Year        *int              `json:"year,omitempty"`
	Agency      string            `json:"agency,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
	Origin      Origin            `json:"origin"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

// OptionList returns the question's options in label order (A first).
func (q *Question) OptionList() []Option {
	labels := make([]string, 0, len(q.Options))
	for l := range q.Options {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	opts := make([]Option, 0, len(labels))
	for _, l := range labels {
		opts = append(opts, Option{Label: l, Text: q.Options[l]})
	}
	return opts
}

// Option is one labeled answer choice.
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// CreateQuestionRequest is the payload for manually authoring a question.
type CreateQuestionRequest struct {
	PositionID *int              `json:"position_id" binding:"omitempty"`
	Statement  string            `json:"statement" binding:"required,min=10,max=4000"`
	Options    map[string]string `json:"options" binding:"required"`
	Correct    string            `json:"correct" binding:"required,oneof=A B C D E"`
	Subject    string            `json:"subject" binding:"required,min=2,max=100"`
	Board      string            `json:"board" binding:"omitempty,max=100"`
	Year       *int              `json:"year" binding:"omitempty,min=1990,max=2100"`
	Agency     string            `json:"agency" binding:"omitempty,max=150"`
}

// SetExplanationRequest attaches or replaces the explanatory text of a question.
type SetExplanationRequest struct {
	Explanation string `json:"explanation" binding:"required,min=1,max=8000"`
}
