package capture

import "errors"

// Kind classifies why a capture failed.
type Kind int

const (
	KindNoURLFound Kind = iota + 1
	KindCreationFailed
	KindInboxFull
	KindStorage
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNoURLFound     = errors.New("no URL found")
	ErrCreationFailed = errors.New("could not create item")
	ErrInboxFull      = errors.New("inbox is full")
	ErrStorage        = errors.New("could not save item")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNoURLFound:
		return ErrNoURLFound
	case KindCreationFailed:
		return ErrCreationFailed
	case KindInboxFull:
		return ErrInboxFull
	case KindStorage:
		return ErrStorage
	}
	return nil
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown capture error"
}

// Error is returned by UseCase.Execute.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind of a capture error, or zero.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
