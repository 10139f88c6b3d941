package repository

import (
	"context"
	"testing"

	"github.com/lshigami/coursexam/internal/model"
	"github.com/lshigami/coursexam/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedCourse(t *testing.T, repo CourseRepository, assessments AssessmentRepository) (*model.Course, *model.Assessment) {
	t.Helper()
	ctx := context.Background()

	course := &model.Course{Title: "Networking 101"}
	require.NoError(t, repo.Create(ctx, course))

	assessment := &model.Assessment{
		CourseID:    course.ID,
		Title:       "Final exam",
		Kind:        model.AssessmentKindExam,
		IsPublished: true,
		Questions: []model.Question{
			{Prompt: "second", Position: 2, Answer: 1, IsPublished: true, Options: []model.Option{
				{Text: "b", Position: 2}, {Text: "a", Position: 1},
			}},
			{Prompt: "first", Position: 1, Answer: 2, IsPublished: true, Options: []model.Option{
				{Text: "x", Position: 1}, {Text: "y", Position: 2},
			}},
			{Prompt: "draft", Position: 3, Answer: 1, IsPublished: false},
		},
	}
	require.NoError(t, assessments.Create(ctx, assessment))
	return course, assessment
}

func TestAssessmentRepository_FindPublishedWithQuestions(t *testing.T) {
	db := testutil.OpenDB(t)
	courses := NewCourseRepository(db)
	assessments := NewAssessmentRepository(db)
	course, created := seedCourse(t, courses, assessments)

	got, err := assessments.FindPublishedWithQuestions(context.Background(), course.ID, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "first", got.Questions[0].Prompt)
	assert.Equal(t, "second", got.Questions[1].Prompt)
	require.Len(t, got.Questions[1].Options, 2)
	assert.Equal(t, "a", got.Questions[1].Options[0].Text)

	_, err = assessments.FindPublishedWithQuestions(context.Background(), "other-course", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseRepository_FindByIDWithAssessments(t *testing.T) {
	db := testutil.OpenDB(t)
	courses := NewCourseRepository(db)
	assessments := NewAssessmentRepository(db)
	course, _ := seedCourse(t, courses, assessments)

	draft := &model.Assessment{CourseID: course.ID, Title: "Hidden", Kind: model.AssessmentKindQuiz}
	require.NoError(t, assessments.Create(context.Background(), draft))

	got, err := courses.FindByIDWithAssessments(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, got.Assessments, 1)
	assert.Len(t, got.Assessments[0].Questions, 2)

	_, err = courses.FindByIDWithAssessments(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessmentRepository_Delete(t *testing.T) {
	db := testutil.OpenDB(t)
	courses := NewCourseRepository(db)
	assessments := NewAssessmentRepository(db)
	course, created := seedCourse(t, courses, assessments)
	ctx := context.Background()

	require.NoError(t, assessments.Delete(ctx, course.ID, created.ID))
	_, err := assessments.FindByID(ctx, course.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var remaining int64
	require.NoError(t, db.Model(&model.Question{}).Where("assessment_id = ?", created.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, assessments.Delete(ctx, course.ID, created.ID), ErrNotFound)
}

func TestProgressRepository_Upsert(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()
	key := Key{UserID: "u1", CourseID: "c1", AssessmentID: "a1"}

	_, err := repo.Find(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := repo.Upsert(ctx, &model.Progress{
		UserID: key.UserID, CourseID: key.CourseID, AssessmentID: key.AssessmentID,
		Options: datatypes.JSON(`{"q1":1}`), Percentage: 25,
	})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, &model.Progress{
		UserID: key.UserID, CourseID: key.CourseID, AssessmentID: key.AssessmentID,
		Options: datatypes.JSON(`{"q1":2,"q2":1}`), Percentage: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 50.0, second.Percentage)
	assert.JSONEq(t, `{"q1":2,"q2":1}`, string(second.Options))

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResultRepository_UpsertKeepsOneRow(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewResultRepository(db)
	ctx := context.Background()

	for _, points := range []int{40, 80} {
		_, err := repo.Upsert(ctx, &model.Result{UserID: "u1", CourseID: "c1", AssessmentID: "a1", Points: points})
		require.NoError(t, err)
	}
	_, err := repo.Upsert(ctx, &model.Result{UserID: "u2", CourseID: "c1", AssessmentID: "a1", Points: 10})
	require.NoError(t, err)

	got, err := repo.Find(ctx, Key{UserID: "u1", CourseID: "c1", AssessmentID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, 80, got.Points)

	var count int64
	require.NoError(t, db.Model(&model.Result{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCertificateRepository_CreateIfAbsent(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewCertificateRepository(db)
	ctx := context.Background()

	first, created, err := repo.CreateIfAbsent(ctx, &model.Certificate{
		UserID: "u1", CourseID: "c1", AssessmentID: "a1", NameOfStudent: "Sam", CourseTitle: "Go",
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.CreateIfAbsent(ctx, &model.Certificate{
		UserID: "u1", CourseID: "c1", AssessmentID: "a1", NameOfStudent: "Someone else", CourseTitle: "Go",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Sam", second.NameOfStudent)

	var count int64
	require.NoError(t, db.Model(&model.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
