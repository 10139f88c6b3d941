package dto

// ProgressUpsertDTO is the PUT/PATCH progress body. UserSelections maps a
// question id to the 1-based position of the chosen option.
type ProgressUpsertDTO struct {
	Percentage     float64        `json:"percentage"`
	UserID         string         `json:"userId" binding:"required"`
	UserSelections map[string]int `json:"userSelections" binding:"required"`
}

type ResultCreateDTO struct {
	UserID   string `json:"userId" binding:"required"`
	CourseID string `json:"courseId" binding:"required"`
	ExamID   string `json:"examId" binding:"required"`
	Points   *int   `json:"points" binding:"required,min=0,max=100"`
}

type CertificateRequestDTO struct {
	NameOfStudent string `json:"nameOfStudent"`
}

// SubmissionDTO is a server-scored submission. NameOfStudent is needed only
// when the attempt earns a certificate.
type SubmissionDTO struct {
	UserSelections map[string]int `json:"userSelections" binding:"required"`
	NameOfStudent  string         `json:"nameOfStudent"`
}
