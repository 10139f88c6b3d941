package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourQuestionExam() Assessment {
	return Assessment{
		ID:   "exam-1",
		Kind: KindExam,
		Questions: []Question{
			{ID: "q1", Answer: 1, Options: 4},
			{ID: "q2", Answer: 2, Options: 4},
			{ID: "q3", Answer: 1, Options: 4},
			{ID: "q4", Answer: 3, Options: 4},
		},
	}
}

func TestScore(t *testing.T) {
	exam := fourQuestionExam()

	tests := []struct {
		name       string
		sel        Selections
		answered   int
		correct    int
		wrong      int
		score      float64
		wrongIDs   []string
		isComplete bool
	}{
		{
			name:       "one wrong answer",
			sel:        Selections{"q1": 1, "q2": 2, "q3": 3, "q4": 3},
			answered:   4,
			correct:    3,
			wrong:      1,
			score:      75,
			wrongIDs:   []string{"q3"},
			isComplete: true,
		},
		{
			name:     "empty attempt",
			sel:      Selections{},
			wrongIDs: []string{},
		},
		{
			name:     "partial attempt uses the full denominator",
			sel:      Selections{"q1": 1, "q2": 2},
			answered: 2,
			correct:  2,
			score:    50,
			wrongIDs: []string{},
		},
		{
			name:     "unknown question ids are ignored",
			sel:      Selections{"q1": 1, "nope": 2},
			answered: 1,
			correct:  1,
			score:    25,
			wrongIDs: []string{},
		},
		{
			name:       "all wrong keeps question order",
			sel:        Selections{"q4": 1, "q1": 2, "q3": 2, "q2": 1},
			answered:   4,
			wrong:      4,
			wrongIDs:   []string{"q1", "q2", "q3", "q4"},
			isComplete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(exam, tt.sel)
			assert.Equal(t, 4, got.Total)
			assert.Equal(t, tt.answered, got.Answered)
			assert.Equal(t, tt.correct, got.Correct)
			assert.Equal(t, tt.wrong, got.Wrong)
			assert.InDelta(t, tt.score, got.Score, 1e-9)
			assert.Equal(t, tt.wrongIDs, got.WrongQuestionIDs)
			assert.Equal(t, tt.isComplete, got.Complete())
			assert.Equal(t, got.Total, got.Answered+got.Unanswered())
		})
	}
}

func TestScoreEmptyAssessment(t *testing.T) {
	got := Score(Assessment{Kind: KindExam}, Selections{"q1": 1})
	assert.Zero(t, got.Score)
	assert.False(t, got.Complete())
}

func TestScoreCompleteAttemptsMatchFormula(t *testing.T) {
	exam := fourQuestionExam()
	positions := []int{1, 2, 3, 4}
	for _, a := range positions {
		for _, b := range positions {
			sel := Selections{"q1": a, "q2": b, "q3": a, "q4": b}
			got := Score(exam, sel)
			require.True(t, got.Complete())
			assert.InDelta(t, float64(got.Correct)/float64(got.Total)*100, got.Score, 1e-9)
			assert.Equal(t, got.Total, got.Correct+got.Wrong)
		}
	}
}

func TestPoints(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{75, 75},
		{66.666, 67},
		{33.333, 33},
		{-3, 0},
		{120, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Points(tt.score), "score %v", tt.score)
	}
}

func TestPolicyOutcome(t *testing.T) {
	p := DefaultPolicy()
	exam := fourQuestionExam()
	starter := fourQuestionExam()
	starter.Starter = true
	quiz := Assessment{Kind: KindQuiz}

	tests := []struct {
		name       string
		assessment Assessment
		score      float64
		want       Outcome
	}{
		{"final exam above the certificate threshold", exam, 65, OutcomeCertificate},
		{"final exam between pass and certificate", exam, 55, OutcomeRetake},
		{"final exam exactly at the certificate threshold", exam, 60, OutcomeRetake},
		{"final exam failing", exam, 20, OutcomeRetake},
		{"starter never blocks", starter, 40, OutcomePlacement},
		{"starter never certifies", starter, 100, OutcomePlacement},
		{"quiz passed", quiz, 50, OutcomePassed},
		{"quiz below pass", quiz, 49, OutcomeCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Outcome(tt.assessment, tt.score))
		})
	}
}

func TestPolicyPassed(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.Passed(50))
	assert.False(t, p.Passed(49.9))
}

func TestPolicyCanSubmit(t *testing.T) {
	p := DefaultPolicy()
	exam := fourQuestionExam()
	quiz := fourQuestionExam()
	quiz.Kind = KindQuiz

	partial := Selections{"q1": 1}
	full := Selections{"q1": 1, "q2": 1, "q3": 1, "q4": 1}

	assert.False(t, p.CanSubmit(exam, Score(exam, partial)))
	assert.True(t, p.CanSubmit(exam, Score(exam, full)))
	assert.False(t, p.CanSubmit(quiz, Score(quiz, Selections{})))
	assert.True(t, p.CanSubmit(quiz, Score(quiz, partial)))
}

func TestSelectionsClone(t *testing.T) {
	orig := Selections{"q1": 2}
	c := orig.Clone()
	c["q1"] = 3
	assert.Equal(t, 2, orig["q1"])

	var empty Selections
	assert.NotNil(t, empty.Clone())
}

func TestValidate(t *testing.T) {
	exam := fourQuestionExam()
	exam.Questions = append(exam.Questions, Question{ID: "q5", Answer: 1})

	tests := []struct {
		name string
		sel  Selections
		want error
	}{
		{"valid", Selections{"q1": 1, "q4": 4}, nil},
		{"empty", Selections{}, nil},
		{"unknown option count allows any positive position", Selections{"q5": 9}, nil},
		{"position zero", Selections{"q1": 0}, ErrPositionOutOfRange},
		{"negative position", Selections{"q5": -1}, ErrPositionOutOfRange},
		{"past the last option", Selections{"q2": 5}, ErrPositionOutOfRange},
		{"unknown question", Selections{"q1": 1, "nope": 1}, ErrUnknownQuestion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exam.Validate(tt.sel)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
