package session

import "github.com/simuconcursos/simulado-backend/internal/model"

// View is the read-only per-index projection exposed for rendering. The
// correct label and explanation are only revealed while reviewing.
type View struct {
	Index            int            `json:"index"`
	Total            int            `json:"total"`
	Phase            Phase          `json:"phase"`
	Subject          string         `json:"subject"`
	Statement        string         `json:"statement"`
	Options          []model.Option `json:"options"`
	IsAnswered       bool           `json:"is_answered"`
	ChosenLabel      *string        `json:"chosen_label,omitempty"`
	CorrectLabel     *string        `json:"correct_label,omitempty"`
	Explanation      *string        `json:"explanation,omitempty"`
	RemainingSeconds int            `json:"remaining_seconds"`
}

// Projection builds the rendering view of one question index. Any rendering
// strategy can sit on top of this query without affecting session semantics.
func (s *Session) Projection(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return View{}, ErrInvalidIndex
	}

	item := s.items[index]
	v := View{
		Index:     index,
		Total:     len(s.items),
		Phase:     s.phase,
		Subject:   item.Subject,
		Statement: item.Statement,
		Options:   item.OptionList(),
	}

	if label, ok := s.answers[index]; ok {
		v.IsAnswered = true
		v.ChosenLabel = &label
	}

	if s.phase == PhaseReviewing {
		correct := item.Correct
		v.CorrectLabel = &correct
		if item.Explanation != "" {
			explanation := item.Explanation
			v.Explanation = &explanation
		}
	} else if index == s.current {
		left := s.deadline - s.clock().Sub(s.questionStart)
		if left < 0 {
			left = 0
		}
		v.RemainingSeconds = int(left.Seconds())
	}

	return v, nil
}
