package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrValidation         = errors.New("validation failed")

	ErrNoQuestions             = errors.New("no questions for combination")
	ErrQuestionNotFound        = errors.New("question not found")
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionQuestionNotFound = errors.New("question not found in session")
	ErrSessionEnded            = errors.New("session already ended")
	ErrAlreadyAnswered         = errors.New("question already answered")
	ErrConcurrentUpdate        = errors.New("session was updated concurrently, retry")
)
