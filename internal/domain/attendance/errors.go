package attendance

import "errors"

// Attendance domain errors
var (
	// Transition errors
	ErrForbiddenDay      = errors.New("check-in is not allowed on a non-working day")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrInvalidInterval   = errors.New("check-out time is before check-in time")

	// General errors
	ErrAccessDenied = errors.New("you do not have access to this attendance operation")

	// ErrRecordConflict is returned by Repository.Upsert when the stored row
	// already moved past the state the write expected.
	ErrRecordConflict = errors.New("attendance record was modified concurrently")
)
