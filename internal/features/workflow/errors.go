package workflow

import "errors"

var (
	ErrInvalidRequest   = errors.New("one of action, targetStage, status or note is required")
	ErrInvalidAction    = errors.New("invalid action")
	ErrInvalidStage     = errors.New("invalid stage")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPublishAt = errors.New("publishAt must be an RFC3339 timestamp on a scheduled transition")
	ErrMissingID        = errors.New("missing submission id")
	ErrPermissionDenied = errors.New("permission denied")
)

// IsInputError reports errors that map to a 400 response.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrInvalidStage) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidPublishAt) ||
		errors.Is(err, ErrMissingID)
}
