package recipeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks transport failures: dial/read errors and non-2xx statuses.
	ErrNetwork = errors.New("network error")
	// ErrDecode marks a body that is not a catalog page.
	ErrDecode = errors.New("decode error")
)

// FetchError reports the failure of one page request.
type FetchError struct {
	Start, End int
	Kind       error // ErrNetwork or ErrDecode
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch recipes %d-%d: %v: %v", e.Start, e.End, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func networkError(start, end int, err error) error {
	return &FetchError{Start: start, End: end, Kind: ErrNetwork, Err: err}
}

func decodeError(start, end int, err error) error {
	return &FetchError{Start: start, End: end, Kind: ErrDecode, Err: err}
}
