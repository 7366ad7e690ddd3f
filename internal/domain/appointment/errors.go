package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrScheduledInPast     = errors.New("appointment cannot be scheduled in the past")
	ErrInvalidDuration     = errors.New("appointment duration must be between 5 and 480 minutes")
)
