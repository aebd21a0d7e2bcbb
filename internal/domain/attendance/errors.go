package attendance

import "errors"

var (
	ErrNotFound            = errors.New("attendance record not found")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrAlreadyClockedIn    = errors.New("open attendance already exists")
	ErrNoOpenAttendance    = errors.New("no active attendance record")
	ErrBreakAlreadyStarted = errors.New("break already started")
	ErrBreakNotStarted     = errors.New("break has not been started")
	ErrBreakAlreadyEnded   = errors.New("break already ended")
	ErrEmptyPatch          = errors.New("no valid fields provided")
	ErrInvalidTimeRange    = errors.New("clock-out must be after clock-in")
)
