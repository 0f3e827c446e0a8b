package models

import (
	"errors"
	"fmt"
)

// ErrNoData indicates the provider has nothing for a symbol. List callers
// omit the symbol silently; single-symbol endpoints map it to 404.
var ErrNoData = errors.New("no data available")

// ErrorKind classifies a fetch failure.
type ErrorKind string

const (
	// KindNetwork covers timeouts and connection failures. Retried only by
	// the next scheduled refresh, never immediately.
	KindNetwork ErrorKind = "network"
	// KindParse covers malformed or unexpected provider payloads. Fails that
	// unit (chunk or symbol) without aborting the batch.
	KindParse ErrorKind = "parse"
	// KindNotFound means the provider has no data for the symbol.
	KindNotFound ErrorKind = "not_found"
)

// FetchError is a typed per-unit fetch failure. Callers decide fallback vs
// propagation explicitly; one symbol's failure never aborts a batch.
type FetchError struct {
	Symbol string
	Kind   ErrorKind
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.Symbol, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Symbol, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a network-level failure for symbol.
func NewNetworkError(symbol string, err error) *FetchError {
	return &FetchError{Symbol: symbol, Kind: KindNetwork, Err: err}
}

// NewParseError wraps a payload-level failure for symbol.
func NewParseError(symbol string, err error) *FetchError {
	return &FetchError{Symbol: symbol, Kind: KindParse, Err: err}
}

// NewNotFoundError marks symbol as having no provider data.
func NewNotFoundError(symbol string) *FetchError {
	return &FetchError{Symbol: symbol, Kind: KindNotFound, Err: ErrNoData}
}

// IsNotFound reports whether err is a not-found fetch failure or ErrNoData.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNoData) {
		return true
	}
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindNotFound
}
