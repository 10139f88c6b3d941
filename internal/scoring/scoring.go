// Package scoring holds the scoring rules shared by the assessment session and
// the server-side submission flow. Everything here is pure.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownQuestion    = errors.New("question is not part of the assessment")
	ErrPositionOutOfRange = errors.New("option position out of range")
)

type Kind string

const (
	KindExam Kind = "exam"
	KindQuiz Kind = "quiz"
)

// Question is the scoring view of a question. Answer is the 1-based position of
// the correct option; Options is the number of options offered.
type Question struct {
	ID      string
	Answer  int
	Options int
}

type Assessment struct {
	ID        string
	Kind      Kind
	Starter   bool
	Questions []Question
}

// Question looks a question up by id.
func (a Assessment) Question(id string) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Selections maps a question id to the 1-based position of the chosen option.
type Selections map[string]int

// Clone returns an independent copy. A nil receiver yields an empty map.
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Validate checks that every selection names a question of the assessment and
// a position within 1..Options. Questions with an unknown option count only
// need a positive position. Keys are checked in sorted order so the reported
// error is stable.
func (a Assessment) Validate(sel Selections) error {
	ids := make([]string, 0, len(sel))
	for id := range sel {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		q, ok := a.Question(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
		}
		pos := sel[id]
		if pos < 1 || (q.Options > 0 && pos > q.Options) {
			return fmt.Errorf("%w: question %q has no option %d", ErrPositionOutOfRange, id, pos)
		}
	}
	return nil
}

type Tally struct {
	Total            int      `json:"total"`
	Answered         int      `json:"answered"`
	Correct          int      `json:"correct"`
	Wrong            int      `json:"wrong"`
	Score            float64  `json:"score"`
	WrongQuestionIDs []string `json:"wrongQuestionIds"`
}

func (t Tally) Unanswered() int { return t.Total - t.Answered }

// Complete reports whether every question has a selection.
func (t Tally) Complete() bool { return t.Total > 0 && t.Answered == t.Total }

// Score tallies selections against the assessment. The percentage is taken over
// every question, answered or not, so a partial attempt is scored against the
// full denominator. Selections for unknown question ids are ignored.
func Score(a Assessment, sel Selections) Tally {
	t := Tally{Total: len(a.Questions), WrongQuestionIDs: []string{}}
	for _, q := range a.Questions {
		pos, ok := sel[q.ID]
		if !ok {
			continue
		}
		t.Answered++
		if pos == q.Answer {
			t.Correct++
			continue
		}
		t.Wrong++
		t.WrongQuestionIDs = append(t.WrongQuestionIDs, q.ID)
	}
	if t.Total > 0 {
		t.Score = float64(t.Correct) / float64(t.Total) * 100
	}
	return t
}

// Points converts a percentage into the integer value persisted on a Result.
func Points(score float64) int {
	p := int(math.Round(score))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

type Outcome string

const (
	OutcomePlacement   Outcome = "placement"
	OutcomeCertificate Outcome = "certificate"
	OutcomeRetake      Outcome = "retake"
	OutcomePassed      Outcome = "passed"
	OutcomeCompleted   Outcome = "completed"
)

// Policy carries the two thresholds. A score at or above PassScore is a pass;
// a final exam must score strictly above CertificateScore to earn a certificate.
type Policy struct {
	PassScore        float64
	CertificateScore float64
}

func DefaultPolicy() Policy {
	return Policy{PassScore: 50, CertificateScore: 60}
}

func (p Policy) Passed(score float64) bool { return score >= p.PassScore }

func (p Policy) Outcome(a Assessment, score float64) Outcome {
	switch {
	case a.Starter:
		return OutcomePlacement
	case a.Kind == KindQuiz:
		if p.Passed(score) {
			return OutcomePassed
		}
		return OutcomeCompleted
	case score > p.CertificateScore:
		return OutcomeCertificate
	default:
		return OutcomeRetake
	}
}

// CanSubmit reports whether an attempt may be submitted. Exams, starter ones
// included, need every question answered; quizzes need a single selection.
func (p Policy) CanSubmit(a Assessment, t Tally) bool {
	if a.Kind == KindQuiz && !a.Starter {
		return t.Answered > 0
	}
	return t.Complete()
}
