package models

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// Question types understood by the scoring engine.
const (
	QuestionTypeSingleChoice = "single_choice"
	QuestionTypeMultiChoice  = "multi_choice"
	QuestionTypeNumerical    = "numerical"
)

// NumericalAnswer is the answer spec for numerical questions. When both
// RangeMin and RangeMax are set, any value inside the inclusive range is
// correct; otherwise the entered value must equal ExactValue.
type NumericalAnswer struct {
	ExactValue float64  `bson:"exact_value" json:"exact_value"`
	RangeMin   *float64 `bson:"range_min,omitempty" json:"range_min,omitempty"`
	RangeMax   *float64 `bson:"range_max,omitempty" json:"range_max,omitempty"`
	Unit       string   `bson:"unit,omitempty" json:"unit,omitempty"`
}

// Question is immutable reference data owned by the question bank. The
// engine only reads it; prompt and option text are opaque here.
type Question struct {
	ID              string           `bson:"_id,omitempty" json:"id"`
	Content         string           `bson:"content" json:"content"`
	Type            string           `bson:"type" json:"type"`
	Options         []Option         `bson:"options" json:"options"`
	CorrectOption   *int             `bson:"correct_option,omitempty" json:"correct_option,omitempty"`
	CorrectOptions  []int            `bson:"correct_options,omitempty" json:"correct_options,omitempty"`
	NumericalAnswer *NumericalAnswer `bson:"numerical_answer,omitempty" json:"numerical_answer,omitempty"`
	Explanation     string           `bson:"explanation" json:"explanation"`
	Subject         string           `bson:"subject" json:"subject"`
	Difficulty      string           `bson:"difficulty" json:"difficulty"`
	ExamType        string           `bson:"exam_type" json:"exam_type"`
	Status          string           `bson:"status" json:"status"`
}
