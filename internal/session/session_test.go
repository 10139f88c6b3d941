package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/coursexam/internal/scoring"
	"github.com/lshigami/coursexam/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("store unavailable")

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// memGateway keeps records in maps and logs every call.
type memGateway struct {
	mu       sync.Mutex
	attempts map[session.Key]session.Attempt
	results  map[session.Key]session.Result
	certs    map[session.Key]session.Certificate
	fail     map[string]error
	calls    []string
	gate     chan struct{}
}

func newMemGateway() *memGateway {
	return &memGateway{
		attempts: map[session.Key]session.Attempt{},
		results:  map[session.Key]session.Result{},
		certs:    map[session.Key]session.Certificate{},
		fail:     map[string]error{},
	}
}

func (g *memGateway) record(call string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	return g.fail[call]
}

func (g *memGateway) setFail(call string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.fail, call)
		return
	}
	g.fail[call] = err
}

func (g *memGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.calls...)
}

func (g *memGateway) GetPriorAttempt(_ context.Context, key session.Key) (*session.Attempt, error) {
	if err := g.record("GetPriorAttempt"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.attempts[key]
	if !ok {
		return nil, session.ErrNotFound
	}
	a.Selections = a.Selections.Clone()
	return &a, nil
}

func (g *memGateway) PutAttempt(_ context.Context, key session.Key, attempt session.Attempt) error {
	if err := g.record("PutAttempt"); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts[key] = attempt
	return nil
}

func (g *memGateway) CreateResult(_ context.Context, key session.Key, points int) (*session.Result, error) {
	if g.gate != nil {
		<-g.gate
	}
	if err := g.record("CreateResult"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	r := session.Result{ID: fmt.Sprintf("result-%d", len(g.results)+1), Points: points}
	g.results[key] = r
	return &r, nil
}

func (g *memGateway) GetResult(_ context.Context, key session.Key) (*session.Result, error) {
	if err := g.record("GetResult"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.results[key]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &r, nil
}

func (g *memGateway) GetCertificate(_ context.Context, key session.Key) (*session.Certificate, error) {
	if err := g.record("GetCertificate"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.certs[key]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &c, nil
}

func (g *memGateway) RequestCertificate(_ context.Context, key session.Key, name string) (*session.Certificate, error) {
	if err := g.record("RequestCertificate"); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	c := session.Certificate{ID: "cert-" + key.UserID, NameOfStudent: name, CourseTitle: "Course"}
	g.certs[key] = c
	return &c, nil
}

var key = session.Key{UserID: "u1", CourseID: "c1", AssessmentID: "a1"}

// exam builds an assessment whose questions q1..qn have the given answers.
func exam(kind scoring.Kind, starter bool, answers ...int) scoring.Assessment {
	a := scoring.Assessment{ID: "a1", Kind: kind, Starter: starter}
	for i, ans := range answers {
		a.Questions = append(a.Questions, scoring.Question{ID: fmt.Sprintf("q%d", i+1), Answer: ans, Options: 4})
	}
	return a
}

// answer selects positions for q1, q2, ... in order.
func answer(t *testing.T, s *session.Session, positions ...int) {
	t.Helper()
	for i, p := range positions {
		require.True(t, s.SelectOption(fmt.Sprintf("q%d", i+1), p), "select q%d", i+1)
	}
}

func hydrated(t *testing.T, gw session.Gateway, a scoring.Assessment, opts ...session.Option) *session.Session {
	t.Helper()
	s := session.New(gw, key, a, opts...)
	require.NoError(t, s.Hydrate(context.Background()))
	return s
}

func TestSelectOptionTransitions(t *testing.T) {
	gw := newMemGateway()
	s := session.New(gw, key, exam(scoring.KindExam, false, 1, 2, 1))

	assert.Equal(t, session.StateLoading, s.View().State)
	assert.False(t, s.SelectOption("q1", 1), "selection before hydration")

	require.NoError(t, s.Hydrate(context.Background()))
	assert.Equal(t, session.StateUnanswered, s.View().State)

	assert.True(t, s.SelectOption("q1", 1))
	assert.Equal(t, session.StateInProgress, s.View().State)
	assert.False(t, s.View().CanSubmit)

	assert.False(t, s.SelectOption("unknown", 1))
	assert.False(t, s.SelectOption("q2", 0))
	assert.False(t, s.SelectOption("q2", 5))

	answer(t, s, 2, 2, 1)
	v := s.View()
	assert.Equal(t, session.StateReadyToSubmit, v.State)
	assert.True(t, v.CanSubmit)
	assert.Equal(t, 3, v.Tally.Answered)
	assert.Equal(t, 2, v.Tally.Correct)
	assert.Equal(t, []string{"q1"}, v.Tally.WrongQuestionIDs)

	v.Selections["q1"] = 4
	assert.Equal(t, 2, s.View().Selections["q1"], "view returns a copy")
}

func TestHydrate(t *testing.T) {
	t.Run("prior attempt freezes the session", func(t *testing.T) {
		gw := newMemGateway()
		gw.attempts[key] = session.Attempt{Selections: scoring.Selections{"q1": 1, "q2": 2, "q3": 3, "q4": 3}, Percentage: 75}
		s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2, 1, 3))

		v := s.View()
		assert.Equal(t, session.StatePriorAttemptLoaded, v.State)
		assert.Equal(t, 75, v.Points)
		assert.Equal(t, scoring.OutcomeCertificate, v.Outcome)
		assert.Equal(t, []string{"q3"}, v.Tally.WrongQuestionIDs)
		assert.False(t, v.CanSubmit)

		assert.False(t, s.SelectOption("q3", 1))
		assert.False(t, s.Reset())
		assert.Equal(t, v, s.View())
		assert.ErrorIs(t, s.Submit(context.Background()), session.ErrAlreadySubmitted)
	})

	t.Run("hydrating twice is stable", func(t *testing.T) {
		gw := newMemGateway()
		gw.attempts[key] = session.Attempt{Selections: scoring.Selections{"q1": 2, "q2": 2}}
		s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2))
		first := s.View()
		require.NoError(t, s.Hydrate(context.Background()))
		assert.Equal(t, first, s.View())
	})

	t.Run("passing result short-circuits", func(t *testing.T) {
		gw := newMemGateway()
		gw.results[key] = session.Result{ID: "r1", Points: 80}
		s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2))
		v := s.View()
		assert.Equal(t, session.StatePriorAttemptLoaded, v.State)
		assert.Equal(t, 80, v.Points)
		assert.False(t, s.SelectOption("q1", 1))
	})

	t.Run("failing result leaves the session open", func(t *testing.T) {
		gw := newMemGateway()
		gw.results[key] = session.Result{ID: "r1", Points: 40}
		s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2))
		assert.Equal(t, session.StateUnanswered, s.View().State)
		assert.True(t, s.SelectOption("q1", 1))
	})

	t.Run("starter result is final whatever the score", func(t *testing.T) {
		gw := newMemGateway()
		gw.results[key] = session.Result{ID: "r1", Points: 20}
		s := hydrated(t, gw, exam(scoring.KindExam, true, 1, 2))
		v := s.View()
		assert.Equal(t, session.StatePriorAttemptLoaded, v.State)
		assert.Equal(t, scoring.OutcomePlacement, v.Outcome)
	})

	t.Run("lookup failures count as nothing stored", func(t *testing.T) {
		gw := newMemGateway()
		gw.setFail("GetPriorAttempt", errUnavailable)
		gw.setFail("GetResult", errUnavailable)
		s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2))
		assert.Equal(t, session.StateUnanswered, s.View().State)
		assert.Nil(t, s.View().Notice)
	})
}

func TestSubmitCertificate(t *testing.T) {
	gw := newMemGateway()
	s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2, 1, 3), session.WithStudentName("Ada"))
	answer(t, s, 1, 2, 3, 3)

	require.NoError(t, s.Submit(context.Background()))

	v := s.View()
	assert.Equal(t, session.StateSubmitted, v.State)
	assert.False(t, v.Pending)
	assert.Equal(t, 75, v.Points)
	assert.Equal(t, scoring.OutcomeCertificate, v.Outcome)
	require.NotNil(t, v.Certificate)
	assert.Equal(t, "Ada", v.Certificate.NameOfStudent)
	require.NotNil(t, v.Notice)
	assert.Equal(t, session.NoticeCertificateReady, v.Notice.Key)
	assert.Equal(t, "Your certificate is ready!", v.Notice.Text)

	assert.Equal(t, []string{
		"GetPriorAttempt", "GetResult",
		"CreateResult", "PutAttempt", "GetCertificate", "RequestCertificate",
	}, gw.Calls())
	assert.Equal(t, scoring.Selections{"q1": 1, "q2": 2, "q3": 3, "q4": 3}, gw.attempts[key].Selections)
	assert.InDelta(t, 75.0, gw.attempts[key].Percentage, 1e-9)

	assert.False(t, s.SelectOption("q3", 1))
	assert.ErrorIs(t, s.Submit(context.Background()), session.ErrAlreadySubmitted)
}

func TestSubmitReusesExistingCertificate(t *testing.T) {
	gw := newMemGateway()
	gw.certs[key] = session.Certificate{ID: "existing", NameOfStudent: "Ada"}
	s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2, 1, 3), session.WithStudentName("Ada"))
	answer(t, s, 1, 2, 1, 3)

	require.NoError(t, s.Submit(context.Background()))
	assert.Equal(t, "existing", s.View().Certificate.ID)
	assert.NotContains(t, gw.Calls(), "RequestCertificate")
}

func TestSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		assessment scoring.Assessment
		selections []int
		points     int
		outcome    scoring.Outcome
		notice     session.NoticeKey
	}{
		{
			name:       "55 is a retake",
			assessment: exam(scoring.KindExam, false, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1),
			selections: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			points:     55,
			outcome:    scoring.OutcomeRetake,
			notice:     session.NoticeRetake,
		},
		{
			name:       "exactly 60 is a retake",
			assessment: exam(scoring.KindExam, false, 1, 1, 1, 1, 1),
			selections: []int{1, 1, 1, 2, 2},
			points:     60,
			outcome:    scoring.OutcomeRetake,
			notice:     session.NoticeRetake,
		},
		{
			name:       "starter at 40 is placement",
			assessment: exam(scoring.KindExam, true, 1, 1, 1, 1, 1),
			selections: []int{1, 1, 2, 2, 2},
			points:     40,
			outcome:    scoring.OutcomePlacement,
			notice:     session.NoticePlacementComplete,
		},
		{
			name:       "partial quiz passes",
			assessment: exam(scoring.KindQuiz, false, 1, 2),
			selections: []int{1},
			points:     50,
			outcome:    scoring.OutcomePassed,
			notice:     session.NoticePassed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMemGateway()
			s := hydrated(t, gw, tt.assessment)
			answer(t, s, tt.selections...)

			require.NoError(t, s.Submit(context.Background()))
			v := s.View()
			assert.Equal(t, tt.points, v.Points)
			assert.Equal(t, tt.outcome, v.Outcome)
			assert.Equal(t, tt.notice, v.Notice.Key)
			assert.Nil(t, v.Certificate)
			assert.NotContains(t, gw.Calls(), "GetCertificate")
			assert.Equal(t, tt.points, gw.results[key].Points)
		})
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Run("certificate needs a name", func(t *testing.T) {
		gw := newMemGateway()
		s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2), session.WithStudentName("  "))
		answer(t, s, 1, 2)

		assert.ErrorIs(t, s.Submit(context.Background()), session.ErrStudentNameRequired)
		v := s.View()
		assert.Equal(t, session.StateReadyToSubmit, v.State)
		require.NotNil(t, v.Notice)
		assert.True(t, v.Notice.Blocking)
		assert.Equal(t, session.NoticeNameRequired, v.Notice.Key)
		assert.NotContains(t, gw.Calls(), "CreateResult")
	})

	t.Run("exam must be complete", func(t *testing.T) {
		s := hydrated(t, newMemGateway(), exam(scoring.KindExam, false, 1, 2))
		answer(t, s, 1)
		assert.ErrorIs(t, s.Submit(context.Background()), session.ErrIncomplete)
		assert.Equal(t, session.StateInProgress, s.View().State)
	})

	t.Run("quiz needs one selection", func(t *testing.T) {
		s := hydrated(t, newMemGateway(), exam(scoring.KindQuiz, false, 1, 2))
		assert.ErrorIs(t, s.Submit(context.Background()), session.ErrNoSelections)
		assert.Equal(t, session.NoticeNoSelections, s.View().Notice.Key)
	})

	t.Run("not hydrated", func(t *testing.T) {
		s := session.New(newMemGateway(), key, exam(scoring.KindExam, false, 1))
		assert.ErrorIs(t, s.Submit(context.Background()), session.ErrNotLoaded)
	})
}

func TestSubmitFailureAndRetry(t *testing.T) {
	gw := newMemGateway()
	s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2, 1, 3), session.WithStudentName("Ada"), session.WithLocale("ar"))
	answer(t, s, 1, 2, 1, 3)

	gw.setFail("PutAttempt", errUnavailable)
	err := s.Submit(context.Background())
	require.ErrorIs(t, err, errUnavailable)

	v := s.View()
	assert.Equal(t, session.StateSubmitFailed, v.State)
	assert.False(t, v.Pending)
	assert.Equal(t, session.NoticeSubmitFailed, v.Notice.Key)
	assert.Equal(t, "هناك شئ غير صحيح", v.Notice.Text)
	assert.False(t, s.SelectOption("q1", 2), "selections stay frozen")
	assert.False(t, s.Reset())
	assert.ErrorIs(t, s.Submit(context.Background()), session.ErrAlreadySubmitted)

	gw.setFail("PutAttempt", nil)
	require.NoError(t, s.Retry(context.Background()))

	v = s.View()
	assert.Equal(t, session.StateSubmitted, v.State)
	assert.Equal(t, "شهادتك جاهزة!", v.Notice.Text)
	require.NotNil(t, v.Certificate)

	created := 0
	for _, c := range gw.Calls() {
		if c == "CreateResult" {
			created++
		}
	}
	assert.Equal(t, 1, created, "retry skips the result that was already stored")
	assert.ErrorIs(t, s.Retry(context.Background()), session.ErrNothingToRetry)
}

func TestReset(t *testing.T) {
	t.Run("clears selections", func(t *testing.T) {
		s := hydrated(t, newMemGateway(), exam(scoring.KindExam, false, 1, 2))
		answer(t, s, 1, 2)

		assert.True(t, s.Reset())
		v := s.View()
		assert.Equal(t, session.StateUnanswered, v.State)
		assert.Empty(t, v.Selections)
		assert.Zero(t, v.Tally.Answered)
		assert.Equal(t, 2, v.Tally.Unanswered())
	})

	t.Run("reopens a quiz after the learner's own submission", func(t *testing.T) {
		gw := newMemGateway()
		s := hydrated(t, gw, exam(scoring.KindQuiz, false, 1, 2))
		answer(t, s, 2)
		require.NoError(t, s.Submit(context.Background()))
		require.Equal(t, scoring.OutcomeCompleted, s.View().Outcome)

		assert.True(t, s.Reset())
		v := s.View()
		assert.Equal(t, session.StateUnanswered, v.State)
		assert.Empty(t, v.Outcome)
		assert.Nil(t, v.Notice)

		answer(t, s, 1, 2)
		require.NoError(t, s.Submit(context.Background()))
		assert.Equal(t, 100, gw.results[key].Points)
	})
}

func TestViewWhileSubmitting(t *testing.T) {
	gw := newMemGateway()
	s := hydrated(t, gw, exam(scoring.KindExam, false, 1, 2))
	answer(t, s, 2, 2)
	gw.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()

	require.Eventually(t, func() bool { return s.View().Pending }, timeout, tick)
	v := s.View()
	assert.Equal(t, session.StateSubmitted, v.State)
	assert.False(t, s.SelectOption("q1", 1))
	assert.False(t, s.Reset())
	assert.ErrorIs(t, s.Hydrate(context.Background()), session.ErrSubmissionPending)

	close(gw.gate)
	require.NoError(t, <-done)
	assert.False(t, s.View().Pending)
	assert.Equal(t, scoring.OutcomeRetake, s.View().Outcome)
}

func TestHydrateCertificate(t *testing.T) {
	a := exam(scoring.KindExam, false, 1, 2, 1, 3)

	t.Run("reload after a failed certificate step can still issue it", func(t *testing.T) {
		gw := newMemGateway()
		first := hydrated(t, gw, a, session.WithStudentName("Ada"))
		answer(t, first, 1, 2, 1, 3)
		gw.setFail("GetCertificate", errUnavailable)
		require.ErrorIs(t, first.Submit(context.Background()), errUnavailable)
		gw.setFail("GetCertificate", nil)

		s := hydrated(t, gw, a, session.WithStudentName("Ada"))
		v := s.View()
		assert.Equal(t, session.StatePriorAttemptLoaded, v.State)
		assert.Equal(t, scoring.OutcomeCertificate, v.Outcome)
		assert.Nil(t, v.Certificate)
		assert.True(t, v.CertificateDue)
		assert.Equal(t, "GetCertificate", gw.Calls()[len(gw.Calls())-1])
		assert.ErrorIs(t, s.Submit(context.Background()), session.ErrAlreadySubmitted)

		require.NoError(t, s.RequestCertificate(context.Background()))
		v = s.View()
		assert.Equal(t, session.StatePriorAttemptLoaded, v.State)
		require.NotNil(t, v.Certificate)
		assert.Equal(t, "Ada", v.Certificate.NameOfStudent)
		assert.False(t, v.CertificateDue)
		assert.Equal(t, session.NoticeCertificateReady, v.Notice.Key)
		assert.ErrorIs(t, s.RequestCertificate(context.Background()), session.ErrNoCertificateDue)
	})

	t.Run("existing certificate is loaded", func(t *testing.T) {
		gw := newMemGateway()
		gw.attempts[key] = session.Attempt{Selections: scoring.Selections{"q1": 1, "q2": 2, "q3": 1, "q4": 3}}
		gw.certs[key] = session.Certificate{ID: "cert-1", NameOfStudent: "Ada"}

		v := hydrated(t, gw, a).View()
		require.NotNil(t, v.Certificate)
		assert.Equal(t, "cert-1", v.Certificate.ID)
		assert.False(t, v.CertificateDue)
	})

	t.Run("failed request resumes through retry", func(t *testing.T) {
		gw := newMemGateway()
		gw.attempts[key] = session.Attempt{Selections: scoring.Selections{"q1": 1, "q2": 2, "q3": 1, "q4": 3}}
		s := hydrated(t, gw, a, session.WithStudentName("Ada"))

		gw.setFail("RequestCertificate", errUnavailable)
		require.ErrorIs(t, s.RequestCertificate(context.Background()), errUnavailable)
		assert.Equal(t, session.StateSubmitFailed, s.View().State)

		gw.setFail("RequestCertificate", nil)
		require.NoError(t, s.Retry(context.Background()))
		v := s.View()
		assert.Equal(t, session.StatePriorAttemptLoaded, v.State)
		require.NotNil(t, v.Certificate)
		assert.NotContains(t, gw.Calls(), "CreateResult")
	})

	t.Run("request needs a name", func(t *testing.T) {
		gw := newMemGateway()
		gw.attempts[key] = session.Attempt{Selections: scoring.Selections{"q1": 1, "q2": 2, "q3": 1, "q4": 3}}
		s := hydrated(t, gw, a)

		assert.ErrorIs(t, s.RequestCertificate(context.Background()), session.ErrStudentNameRequired)
		assert.Equal(t, session.NoticeNameRequired, s.View().Notice.Key)
		assert.NotContains(t, gw.Calls(), "RequestCertificate")
	})

	t.Run("retake outcome has no certificate due", func(t *testing.T) {
		gw := newMemGateway()
		gw.attempts[key] = session.Attempt{Selections: scoring.Selections{"q1": 2, "q2": 1, "q3": 1, "q4": 3}}
		s := hydrated(t, gw, a, session.WithStudentName("Ada"))

		assert.False(t, s.View().CertificateDue)
		assert.ErrorIs(t, s.RequestCertificate(context.Background()), session.ErrNoCertificateDue)
		assert.NotContains(t, gw.Calls(), "GetCertificate")
	})
}

// 26 of 43 is 60.47%: above the certificate threshold, yet it rounds to 60
// points.
func TestHydrateKeepsOutcomeOfUnroundedScore(t *testing.T) {
	answers := make([]int, 43)
	selections := make([]int, 43)
	for i := range answers {
		answers[i] = 1
		selections[i] = 1
		if i >= 26 {
			selections[i] = 2
		}
	}
	a := exam(scoring.KindExam, false, answers...)

	gw := newMemGateway()
	s := hydrated(t, gw, a, session.WithStudentName("Ada"))
	answer(t, s, selections...)
	require.NoError(t, s.Submit(context.Background()))
	require.Equal(t, scoring.OutcomeCertificate, s.View().Outcome)
	require.Equal(t, 60, s.View().Points)

	v := hydrated(t, gw, a).View()
	assert.Equal(t, 60, v.Points)
	assert.Equal(t, scoring.OutcomeCertificate, v.Outcome)
	require.NotNil(t, v.Certificate)
}
