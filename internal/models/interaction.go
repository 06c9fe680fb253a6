package models

// Interaction event actions, as produced by the external capture layer.
const (
	ActionVisit  = "visit"
	ActionAnswer = "answer"
	ActionClear  = "clear"
	ActionMark   = "mark"
	ActionUnmark = "unmark"
)

// InteractionEvent is one record of the externally captured navigation log.
// The engine treats these as opaque, append-only input and never mutates
// them. Timestamps are unix milliseconds as delivered by the capture layer.
type InteractionEvent struct {
	ID             string `bson:"_id,omitempty" json:"id"`
	AttemptID      string `bson:"attempt_id" json:"attempt_id"`
	QuestionID     string `bson:"question_id" json:"question_id"`
	TimestampEnter int64  `bson:"timestamp_enter" json:"timestamp_enter"`
	TimestampLeave int64  `bson:"timestamp_leave" json:"timestamp_leave"`
	Action         string `bson:"action" json:"action"`
}
