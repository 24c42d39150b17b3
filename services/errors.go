package services

import "errors"

var (
	// ErrLockedTest rejects a submission against a test the user has not
	// reached in the unlock chain.
	ErrLockedTest = errors.New("test is not unlocked yet")

	// ErrNoUnlockedTests means a random quiz was requested before any test
	// of the subject is accessible.
	ErrNoUnlockedTests = errors.New("no unlocked tests in subject")

	// ErrInsufficientQuestions means the unlocked pool cannot fill the
	// minimum random quiz size.
	ErrInsufficientQuestions = errors.New("not enough questions for a random test")

	// ErrCannotRetake rejects a retake when the latest attempt passed or
	// there is nothing to retake.
	ErrCannotRetake = errors.New("test cannot be retaken")

	// ErrInvalidCredentials rejects a login with an unknown username or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
