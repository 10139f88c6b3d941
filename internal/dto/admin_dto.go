package dto

type CourseCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
}

type OptionCreateDTO struct {
	Text     string `json:"text" binding:"required"`
	Position int    `json:"position" binding:"required,min=1"`
}

// QuestionCreateDTO is used within AssessmentCreateDTO. Answer is the 1-based
// position of the correct option. Questions are published unless
// IsPublished is explicitly false.
type QuestionCreateDTO struct {
	Prompt      string            `json:"prompt" binding:"required"`
	Position    int               `json:"position" binding:"required,min=1"`
	Answer      int               `json:"answer" binding:"required,min=1"`
	Explanation *string           `json:"explanation"`
	IsPublished *bool             `json:"isPublished"`
	Options     []OptionCreateDTO `json:"options" binding:"required,min=2,dive"`
}

// AssessmentCreateDTO creates an exam, a quiz or an external form exam.
// Forms carry a FormURL and no questions.
type AssessmentCreateDTO struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description,omitempty"`
	Kind        string              `json:"kind" binding:"required,oneof=exam quiz form"`
	Starter     bool                `json:"starter"`
	FormURL     *string             `json:"formUrl"`
	ChapterID   *string             `json:"chapterId"`
	IsPublished bool                `json:"isPublished"`
	Questions   []QuestionCreateDTO `json:"questions" binding:"omitempty,dive"`
}
