package session

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/coursexam/internal/scoring"
)

// ErrNotFound is returned by a Gateway when no record exists for the key.
var ErrNotFound = errors.New("session: record not found")

// Key identifies one learner's run at one assessment.
type Key struct {
	UserID       string
	CourseID     string
	AssessmentID string
}

// Attempt is the persisted selection map plus the percentage stored with it.
type Attempt struct {
	Selections scoring.Selections
	Percentage float64
	UpdatedAt  time.Time
}

type Result struct {
	ID     string
	Points int
}

type Certificate struct {
	ID            string
	NameOfStudent string
	CourseTitle   string
	CreatedAt     time.Time
}

// Gateway persists attempts, results and certificates for a session.
// Lookups report a missing record as ErrNotFound.
type Gateway interface {
	GetPriorAttempt(ctx context.Context, key Key) (*Attempt, error)
	PutAttempt(ctx context.Context, key Key, attempt Attempt) error
	CreateResult(ctx context.Context, key Key, points int) (*Result, error)
	GetResult(ctx context.Context, key Key) (*Result, error)
	GetCertificate(ctx context.Context, key Key) (*Certificate, error)
	RequestCertificate(ctx context.Context, key Key, nameOfStudent string) (*Certificate, error)
}
