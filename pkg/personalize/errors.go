package personalize

import "errors"

var (
	// ErrUnknownView is returned when an operation names a view the collection does not hold
	ErrUnknownView = errors.New("view not found")

	// ErrLastView is returned when removing the only remaining view
	ErrLastView = errors.New("cannot delete the last view")
)

type reasoner interface {
	Reason() string
}

type conflicter interface {
	Conflict() bool
}

// Reason returns the user-visible reason of a failed remote call. Errors that
// carry a server-provided message expose it through a Reason method.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var r reasoner
	if errors.As(err, &r) {
		if reason := r.Reason(); reason != "" {
			return reason
		}
	}
	return err.Error()
}

// IsConflict reports whether err was caused by a stale content hash
func IsConflict(err error) bool {
	var c conflicter
	return errors.As(err, &c) && c.Conflict()
}
