// Package services defines the business logic for the assistant and the
// routine back-office operations. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrEmptyQuestion is returned when an assistant request contains no
	// question text.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrQuestionTooLong is returned when a question exceeds the maximum
	// configured length limit.
	ErrQuestionTooLong = errors.New("question too long")

	// ErrStudentNotFound indicates that the requested student does not exist.
	ErrStudentNotFound = errors.New("student not found")
)
