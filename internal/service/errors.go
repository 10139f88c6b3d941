package service

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrAssessmentNotFound  = errors.New("assessment not found")
	ErrStudentNameRequired = errors.New("nameOfStudent is required")
	ErrNotScorable         = errors.New("assessment is hosted on an external form and cannot be scored")
	ErrIncompleteAttempt   = errors.New("every question must be answered before submitting")
	ErrNoSelections        = errors.New("at least one option must be selected before submitting")
	// ErrInvalidSelections wraps selections naming unknown questions or options.
	ErrInvalidSelections = errors.New("invalid selections")
	// ErrInvalidAssessment wraps authoring validation failures.
	ErrInvalidAssessment = errors.New("invalid assessment")
)
