package dto

import "time"

type OptionResponseDTO struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// QuestionResponseDTO carries the correct answer so the client can score
// locally. Answer is the 1-based position of the correct option.
type QuestionResponseDTO struct {
	ID          string              `json:"id"`
	Prompt      string              `json:"prompt"`
	Position    int                 `json:"position"`
	Answer      int                 `json:"answer"`
	Explanation *string             `json:"explanation,omitempty"`
	Options     []OptionResponseDTO `json:"options"`
}

type AssessmentResponseDTO struct {
	ID          string                `json:"id"`
	CourseID    string                `json:"courseId"`
	ChapterID   *string               `json:"chapterId,omitempty"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Kind        string                `json:"kind"`
	Starter     bool                  `json:"starter"`
	FormURL     *string               `json:"formUrl,omitempty"`
	Questions   []QuestionResponseDTO `json:"questions"`
	CreatedAt   time.Time             `json:"createdAt"`
}

type CourseResponseDTO struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Assessments []AssessmentResponseDTO `json:"assessments"`
	CreatedAt   time.Time               `json:"createdAt"`
}
