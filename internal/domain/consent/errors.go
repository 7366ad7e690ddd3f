package consent

import "errors"

var (
	ErrConsentNotFound      = errors.New("consent grant not found")
	ErrConsentAlreadyActive = errors.New("patient already has an active grant for this clinician")
	ErrAlreadyRevoked       = errors.New("consent grant is already revoked")
	ErrInvalidTier          = errors.New("invalid consent tier")
	ErrExpiryInPast         = errors.New("expiry must be in the future")
)
