package emergency

import "errors"

var (
	ErrTransportNotFound = errors.New("emergency transport request not found")
	ErrInvalidResolution = errors.New("episodes resolve only to completed or cancelled")
	ErrAlreadyResolved   = errors.New("emergency episode is already resolved")
)
