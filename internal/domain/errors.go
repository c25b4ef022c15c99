package domain

import "errors"

var (
	// ErrQuestionNotFound indicates a submitted question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoQuestions indicates the question file holds no questions at all.
	ErrNoQuestions = errors.New("question pool is empty")
	// ErrUnauthorized is returned when a request carries no credential.
	ErrUnauthorized = errors.New("missing credential")
	// ErrForbidden is returned when a credential is malformed, expired, or
	// lacks the required role.
	ErrForbidden = errors.New("invalid credential")
	// ErrConnectivity is returned by the client once the single re-login
	// retry has been exhausted.
	ErrConnectivity = errors.New("server unreachable or credential rejected twice")
)
