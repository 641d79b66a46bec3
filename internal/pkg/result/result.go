// Package result defines the uniform envelope returned by every catalog
// service operation, together with the failure taxonomy callers rely on for
// status mapping.
package result

// Kind classifies an operation failure.
type Kind int

const (
	// KindNone means the operation succeeded.
	KindNone Kind = iota
	// KindValidation covers bad input: duplicate variant key, invalid date
	// range, negative quantity.
	KindValidation
	// KindNotFound covers missing product/variant/discount/subcategory.
	KindNotFound
	// KindConflict covers duplicate names or keys.
	KindConflict
	// KindInvalidState covers unmet activation preconditions.
	KindInvalidState
	// KindInternal covers persistence/cache/job-queue failures.
	KindInternal
)

// StatusCode returns the HTTP-class status code for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNone:
		return 200
	case KindValidation, KindInvalidState:
		return 400
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "internal"
	}
}

// Result is the envelope every service operation returns to upstream callers.
type Result[T any] struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Data       T        `json:"data,omitempty"`
	StatusCode int      `json:"statusCode"`
	Warnings   []string `json:"warnings,omitempty"`
}

// OK builds a successful envelope carrying data.
func OK[T any](data T) *Result[T] {
	return &Result[T]{
		Success:    true,
		Message:    "ok",
		Data:       data,
		StatusCode: KindNone.StatusCode(),
	}
}

// OKWithWarnings builds a successful envelope with non-fatal warnings.
func OKWithWarnings[T any](data T, warnings ...string) *Result[T] {
	r := OK(data)
	r.Warnings = warnings
	return r
}

// Fail builds a failed envelope for the given kind and message.
// The data field is left at its zero value.
func Fail[T any](kind Kind, message string) *Result[T] {
	return &Result[T]{
		Success:    false,
		Message:    message,
		StatusCode: kind.StatusCode(),
	}
}

// Failed reports whether the envelope carries a failure.
func (r *Result[T]) Failed() bool {
	return !r.Success
}
