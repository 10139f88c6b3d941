// Package session drives one learner through one assessment: hydrating any
// prior attempt, tracking selections, and submitting through a Gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lshigami/coursexam/internal/scoring"
	"github.com/rs/zerolog/log"
)

type State string

const (
	StateLoading            State = "loading"
	StateUnanswered         State = "unanswered"
	StateInProgress         State = "in_progress"
	StateReadyToSubmit      State = "ready_to_submit"
	StateSubmitted          State = "submitted"
	StatePriorAttemptLoaded State = "prior_attempt_loaded"
	StateSubmitFailed       State = "submit_failed"
)

var (
	ErrNotLoaded           = errors.New("session: not hydrated")
	ErrAlreadySubmitted    = errors.New("session: already submitted")
	ErrIncomplete          = errors.New("session: every question must be answered")
	ErrNoSelections        = errors.New("session: no option selected")
	ErrStudentNameRequired = errors.New("session: student name is required for a certificate")
	ErrSubmissionPending   = errors.New("session: submission in flight")
	ErrNothingToRetry      = errors.New("session: no failed submission to retry")
	ErrNoCertificateDue    = errors.New("session: no certificate is due")
)

type Option func(*Session)

// WithStudentName sets the name printed on a certificate.
func WithStudentName(name string) Option {
	return func(s *Session) { s.studentName = strings.TrimSpace(name) }
}

func WithPolicy(p scoring.Policy) Option {
	return func(s *Session) { s.policy = p }
}

// WithLocale picks the notice language; "en" and "ar" are available.
func WithLocale(locale string) Option {
	return func(s *Session) { s.locale = locale }
}

// steps records which submission calls are still outstanding.
type steps struct {
	result      bool
	attempt     bool
	certificate bool
}

// Session is safe for concurrent use. Gateway calls run without holding the
// lock so View stays responsive while a request is outstanding.
type Session struct {
	gw          Gateway
	key         Key
	assessment  scoring.Assessment
	policy      scoring.Policy
	locale      string
	studentName string

	mu          sync.Mutex
	state       State
	selections  scoring.Selections
	tally       scoring.Tally
	outcome     scoring.Outcome
	points      int
	certificate *Certificate
	notice      *Notice
	inFlight    bool
	todo        steps
	settled     State // state restored once the outstanding steps succeed
	generation  int
}

func New(gw Gateway, key Key, assessment scoring.Assessment, opts ...Option) *Session {
	s := &Session{
		gw:         gw,
		key:        key,
		assessment: assessment,
		policy:     scoring.DefaultPolicy(),
		locale:     "en",
		state:      StateLoading,
		selections: scoring.Selections{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tally = scoring.Score(assessment, s.selections)
	return s
}

// View is a point-in-time copy of the session.
type View struct {
	State       State
	Tally       scoring.Tally
	CanSubmit   bool
	Outcome     scoring.Outcome
	Points      int
	Selections  scoring.Selections
	Certificate *Certificate
	// CertificateDue is set when the outcome earns a certificate that has
	// not been issued yet; RequestCertificate issues it.
	CertificateDue bool
	Pending        bool
	Notice         *Notice
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:      s.state,
		Tally:      s.tally,
		CanSubmit:  s.editable() && s.policy.CanSubmit(s.assessment, s.tally),
		Outcome:    s.outcome,
		Points:     s.points,
		Selections: s.selections.Clone(),
		Pending:    s.inFlight,
	}
	v.CertificateDue = s.certificateDue()
	v.Tally.WrongQuestionIDs = append([]string{}, s.tally.WrongQuestionIDs...)
	if s.certificate != nil {
		cert := *s.certificate
		v.Certificate = &cert
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	return v
}

// Hydrate loads the prior attempt and result for the key, and the
// certificate when the stored attempt earns one. Lookup failures are logged
// and treated as "nothing stored". A later Hydrate supersedes an earlier one
// still in flight.
func (s *Session) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSubmissionPending
	}
	s.generation++
	generation := s.generation
	s.state = StateLoading
	s.selections = scoring.Selections{}
	s.tally = scoring.Score(s.assessment, s.selections)
	s.outcome = ""
	s.points = 0
	s.certificate = nil
	s.notice = nil
	s.todo = steps{}
	s.mu.Unlock()

	attempt, err := s.gw.GetPriorAttempt(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("assessmentID", s.key.AssessmentID).Msg("Session: failed to load prior attempt")
		}
		attempt = nil
	}
	result, err := s.gw.GetResult(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("assessmentID", s.key.AssessmentID).Msg("Session: failed to load result")
		}
		result = nil
	}

	// assessment and policy never change after New, so the outcome can be
	// worked out before taking the lock again.
	selections := scoring.Selections{}
	if attempt != nil {
		selections = attempt.Selections.Clone()
	}
	tally := scoring.Score(s.assessment, selections)

	var (
		frozen bool
		points int
		score  float64
	)
	switch {
	case attempt != nil:
		frozen = true
		points, score = scoring.Points(tally.Score), tally.Score
		if result != nil {
			points = result.Points
		}
	case result != nil && (s.assessment.Starter || s.policy.Passed(float64(result.Points))):
		frozen = true
		points, score = result.Points, float64(result.Points)
	}

	var (
		outcome scoring.Outcome
		cert    *Certificate
	)
	if frozen {
		// The float score decides, as it did at submit time.
		outcome = s.policy.Outcome(s.assessment, score)
		if outcome == scoring.OutcomeCertificate {
			cert, err = s.gw.GetCertificate(ctx, s.key)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					log.Warn().Err(err).Str("assessmentID", s.key.AssessmentID).Msg("Session: failed to load certificate")
				}
				cert = nil
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return nil
	}
	s.selections = selections
	s.tally = tally
	if !frozen {
		s.state = s.editingState()
		return nil
	}
	s.state = StatePriorAttemptLoaded
	s.points = points
	s.outcome = outcome
	s.certificate = cert
	return nil
}

// RequestCertificate issues the certificate a frozen session has earned but
// does not hold yet, typically after a reload that followed a failed
// certificate step. A failure moves the session to StateSubmitFailed, from
// which Retry resumes.
func (s *Session) RequestCertificate(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrSubmissionPending
	}
	if !s.certificateDue() {
		s.mu.Unlock()
		return ErrNoCertificateDue
	}
	if s.studentName == "" {
		s.notice = newNotice(s.locale, NoticeNameRequired, true)
		s.mu.Unlock()
		return ErrStudentNameRequired
	}
	s.settled = s.state
	s.inFlight = true
	s.notice = nil
	s.todo = steps{certificate: true}
	s.mu.Unlock()

	return s.persist(ctx)
}

// SelectOption records the 1-based option position for a question. It
// reports false and changes nothing when the session is not editable or the
// question or position is unknown.
func (s *Session) SelectOption(questionID string, position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editable() {
		return false
	}
	if err := s.assessment.Validate(scoring.Selections{questionID: position}); err != nil {
		return false
	}
	s.selections[questionID] = position
	s.tally = scoring.Score(s.assessment, s.selections)
	s.state = s.editingState()
	s.notice = nil
	return true
}

// Reset clears every selection so the learner can start over, including
// after their own completed submission. It is a no-op while loading, while a
// submission is in flight or failed, and when backed by a prior attempt.
func (s *Session) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editable() && (s.inFlight || s.state != StateSubmitted) {
		return false
	}
	s.selections = scoring.Selections{}
	s.tally = scoring.Score(s.assessment, s.selections)
	s.state = StateUnanswered
	s.outcome = ""
	s.points = 0
	s.certificate = nil
	s.notice = nil
	s.todo = steps{}
	return true
}

// DismissNotice clears the current notice.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	s.notice = nil
	s.mu.Unlock()
}

// Submit freezes the selections and persists them: the result first, then the
// attempt, then the certificate when the score earns one. Failed validation
// only sets a blocking notice. A failed call moves the session to
// StateSubmitFailed, from which Retry resumes.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateLoading:
		s.mu.Unlock()
		return ErrNotLoaded
	case StateSubmitted, StatePriorAttemptLoaded, StateSubmitFailed:
		s.mu.Unlock()
		return ErrAlreadySubmitted
	}

	tally := scoring.Score(s.assessment, s.selections)
	if !s.policy.CanSubmit(s.assessment, tally) {
		err, key := ErrIncomplete, NoticeIncomplete
		if s.assessment.Kind == scoring.KindQuiz && !s.assessment.Starter {
			err, key = ErrNoSelections, NoticeNoSelections
		}
		s.notice = newNotice(s.locale, key, true)
		s.mu.Unlock()
		return err
	}
	outcome := s.policy.Outcome(s.assessment, tally.Score)
	if outcome == scoring.OutcomeCertificate && s.studentName == "" {
		s.notice = newNotice(s.locale, NoticeNameRequired, true)
		s.mu.Unlock()
		return ErrStudentNameRequired
	}

	s.tally = tally
	s.outcome = outcome
	s.points = scoring.Points(tally.Score)
	s.state = StateSubmitted
	s.settled = StateSubmitted
	s.inFlight = true
	s.notice = nil
	s.todo = steps{result: true, attempt: true, certificate: outcome == scoring.OutcomeCertificate}
	s.mu.Unlock()

	return s.persist(ctx)
}

// Retry re-runs the submission calls that have not yet succeeded.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateSubmitFailed {
		s.mu.Unlock()
		return ErrNothingToRetry
	}
	s.state = s.settled
	s.inFlight = true
	s.notice = nil
	s.mu.Unlock()

	return s.persist(ctx)
}

func (s *Session) persist(ctx context.Context) error {
	s.mu.Lock()
	todo := s.todo
	points := s.points
	attempt := Attempt{Selections: s.selections.Clone(), Percentage: s.tally.Score}
	s.mu.Unlock()

	err := s.runSteps(ctx, todo, points, attempt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		log.Error().Err(err).Str("userID", s.key.UserID).Str("assessmentID", s.key.AssessmentID).Msg("Session: submission failed")
		s.state = StateSubmitFailed
		s.notice = newNotice(s.locale, NoticeSubmitFailed, false)
		return err
	}
	s.state = s.settled
	s.notice = newNotice(s.locale, outcomeNotice(s.outcome), false)
	log.Info().Str("userID", s.key.UserID).Str("assessmentID", s.key.AssessmentID).Int("points", points).Str("outcome", string(s.outcome)).Msg("Session: submitted")
	return nil
}

func (s *Session) runSteps(ctx context.Context, todo steps, points int, attempt Attempt) error {
	if todo.result {
		if _, err := s.gw.CreateResult(ctx, s.key, points); err != nil {
			return fmt.Errorf("create result: %w", err)
		}
		s.done(func(st *steps) { st.result = false })
	}
	if todo.attempt {
		if err := s.gw.PutAttempt(ctx, s.key, attempt); err != nil {
			return fmt.Errorf("save attempt: %w", err)
		}
		s.done(func(st *steps) { st.attempt = false })
	}
	if todo.certificate {
		cert, err := s.gw.GetCertificate(ctx, s.key)
		if errors.Is(err, ErrNotFound) {
			cert, err = s.gw.RequestCertificate(ctx, s.key, s.studentName)
		}
		if err != nil {
			return fmt.Errorf("issue certificate: %w", err)
		}
		s.mu.Lock()
		s.certificate = cert
		s.todo.certificate = false
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) done(mark func(*steps)) {
	s.mu.Lock()
	mark(&s.todo)
	s.mu.Unlock()
}

// editable must be called with mu held.
func (s *Session) editable() bool {
	if s.inFlight {
		return false
	}
	switch s.state {
	case StateUnanswered, StateInProgress, StateReadyToSubmit:
		return true
	}
	return false
}

// certificateDue must be called with mu held.
func (s *Session) certificateDue() bool {
	if s.outcome != scoring.OutcomeCertificate || s.certificate != nil {
		return false
	}
	return s.state == StateSubmitted || s.state == StatePriorAttemptLoaded
}

// editingState must be called with mu held.
func (s *Session) editingState() State {
	switch {
	case s.tally.Answered == 0:
		return StateUnanswered
	case s.policy.CanSubmit(s.assessment, s.tally):
		return StateReadyToSubmit
	default:
		return StateInProgress
	}
}
