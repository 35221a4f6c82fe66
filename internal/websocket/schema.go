package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionNavigate Action = "navigate"
	ActionFinalize Action = "finalize"
	ActionPing     Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to record an answer for the
// current question.
type AnswerRequest struct {
	Action Action `json:"action"`
	Index  int    `json:"index"`
	Label  string `json:"label"`
}

// NavigateRequest moves the session cursor.
type NavigateRequest struct {
	Action    Action `json:"action"`
	Direction string `json:"direction"`
}

// FinalizeRequest is sent by the client to close the session and score it.
type FinalizeRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventTick      Event = "tick"
	EventQuestion  Event = "question"
	EventFinalized Event = "finalized"
	EventPong      Event = "pong"
)

// TickResponse is pushed every second while a session is in progress.
type TickResponse struct {
	Event            Event  `json:"event"`
	Phase            string `json:"phase"`
	Index            int    `json:"index"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Answered         int    `json:"answered"`
}

// QuestionResponse carries the projection of the current question.
type QuestionResponse struct {
	Event    Event       `json:"event"`
	Question interface{} `json:"question"`
}

type FinalizedResponse struct {
	Event      Event `json:"event"`
	Correct    int   `json:"correct"`
	Answered   int   `json:"answered"`
	Total      int   `json:"total"`
	Percentage *int  `json:"percentage"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
