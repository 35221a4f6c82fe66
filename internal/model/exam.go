package model

import "time"

// Exam is a public-service selection process (a "concurso") grouping positions.
type Exam struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Position is a job role inside an exam. Questions may optionally belong to
// one position; questions without a position form the general bank.
type Position struct {
	ID     int    `json:"id"`
	ExamID int    `json:"exam_id"`
	Name   string `json:"name"`
}

// CreateExamRequest is the payload for creating an exam.
type CreateExamRequest struct {
	Name string `json:"name" binding:"required,min=3,max=255"`
}

// CreatePositionRequest is the payload for creating a position under an exam.
type CreatePositionRequest struct {
	Name string `json:"name" binding:"required,min=3,max=255"`
}
