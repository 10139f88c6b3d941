package service

import (
	"github.com/lshigami/coursexam/config"
	"github.com/lshigami/coursexam/internal/model"
	"github.com/lshigami/coursexam/internal/scoring"
)

// ScoreConverterService turns stored assessments into their scoring view and
// applies the configured thresholds.
type ScoreConverterService interface {
	Convert(assessment *model.Assessment) scoring.Assessment
	Score(assessment *model.Assessment, sel scoring.Selections) scoring.Tally
	Outcome(assessment *model.Assessment, score float64) scoring.Outcome
	Passed(score float64) bool
	CanSubmit(assessment *model.Assessment, tally scoring.Tally) bool
}

type scoreConverterServiceImpl struct {
	policy scoring.Policy
}

func NewScoreConverterService(cfg *config.Config) ScoreConverterService {
	policy := scoring.DefaultPolicy()
	if cfg != nil {
		if cfg.Assessment.PassScore > 0 {
			policy.PassScore = cfg.Assessment.PassScore
		}
		if cfg.Assessment.CertificateScore > 0 {
			policy.CertificateScore = cfg.Assessment.CertificateScore
		}
	}
	return &scoreConverterServiceImpl{policy: policy}
}

func (s *scoreConverterServiceImpl) Convert(a *model.Assessment) scoring.Assessment {
	out := scoring.Assessment{
		ID:        a.ID,
		Kind:      scoring.KindExam,
		Starter:   a.Starter,
		Questions: make([]scoring.Question, 0, len(a.Questions)),
	}
	if a.Kind == model.AssessmentKindQuiz {
		out.Kind = scoring.KindQuiz
	}
	for _, q := range a.Questions {
		out.Questions = append(out.Questions, scoring.Question{ID: q.ID, Answer: q.Answer, Options: len(q.Options)})
	}
	return out
}

func (s *scoreConverterServiceImpl) Score(a *model.Assessment, sel scoring.Selections) scoring.Tally {
	return scoring.Score(s.Convert(a), sel)
}

func (s *scoreConverterServiceImpl) Outcome(a *model.Assessment, score float64) scoring.Outcome {
	return s.policy.Outcome(s.Convert(a), score)
}

func (s *scoreConverterServiceImpl) Passed(score float64) bool {
	return s.policy.Passed(score)
}

func (s *scoreConverterServiceImpl) CanSubmit(a *model.Assessment, t scoring.Tally) bool {
	return s.policy.CanSubmit(s.Convert(a), t)
}
