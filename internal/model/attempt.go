package model

import "time"

// Attempt is one finished practice session as recorded in history. Percentage
// is graded against answered questions only, not the session total.
type Attempt struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	TakenAt    time.Time `json:"taken_at"`
	Correct    int       `json:"correct"`
	Answered   int       `json:"answered"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
}
