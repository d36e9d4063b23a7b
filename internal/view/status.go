package view

// Kind names the variant held by a Status.
type Kind uint8

const (
	KindIdle Kind = iota
	KindLoading
	KindFailed
	KindReady
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindFailed:
		return "error"
	case KindReady:
		return "ready"
	default:
		return "idle"
	}
}

// Status is the display state of one fetching component. Exactly one
// variant is held at a time: a failed status carries only its message and
// a ready status carries only its value.
type Status[T any] struct {
	kind    Kind
	message string
	value   T
}

func Idle[T any]() Status[T] {
	return Status[T]{kind: KindIdle}
}

func Loading[T any]() Status[T] {
	return Status[T]{kind: KindLoading}
}

func Failed[T any](message string) Status[T] {
	return Status[T]{kind: KindFailed, message: message}
}

func Ready[T any](value T) Status[T] {
	return Status[T]{kind: KindReady, value: value}
}

func (s Status[T]) Kind() Kind {
	return s.kind
}

func (s Status[T]) IsLoading() bool {
	return s.kind == KindLoading
}

// Err returns the failure message when the status is failed.
func (s Status[T]) Err() (string, bool) {
	if s.kind != KindFailed {
		return "", false
	}
	return s.message, true
}

// Value returns the payload when the status is ready.
func (s Status[T]) Value() (T, bool) {
	if s.kind != KindReady {
		var zero T
		return zero, false
	}
	return s.value, true
}
