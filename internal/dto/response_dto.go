package dto

import "time"

type ProgressResponseDTO struct {
	Options    map[string]int `json:"options"`
	Percentage float64        `json:"percentage"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type ResultResponseDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	ExamID    string    `json:"examId"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CertificateResponseDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	CourseID      string    `json:"courseId"`
	ExamID        string    `json:"examId"`
	NameOfStudent string    `json:"nameOfStudent"`
	CourseTitle   string    `json:"courseTitle"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ExplanationDTO struct {
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
	Generated  bool   `json:"generated"`
}

// SubmissionDetailDTO is the outcome of a server-scored submission.
type SubmissionDetailDTO struct {
	Total            int                     `json:"total"`
	Answered         int                     `json:"answered"`
	Correct          int                     `json:"correct"`
	Wrong            int                     `json:"wrong"`
	Score            float64                 `json:"score"`
	Points           int                     `json:"points"`
	WrongQuestionIDs []string                `json:"wrongQuestionIds"`
	Passed           bool                    `json:"passed"`
	Outcome          string                  `json:"outcome"`
	Explanations     []ExplanationDTO        `json:"explanations"`
	Result           ResultResponseDTO       `json:"result"`
	Certificate      *CertificateResponseDTO `json:"certificate,omitempty"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
