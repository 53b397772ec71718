package contract

import "errors"

var (
	// ErrNoProvider means no language-model provider has usable credentials.
	ErrNoProvider = errors.New("no llm provider configured")
	// ErrProviderUnavailable means the caller asked for a specific provider
	// that is unknown or lacks usable credentials. The request is rejected
	// rather than silently served by another provider.
	ErrProviderUnavailable = errors.New("llm provider not available")
	// ErrAuthentication means a provider rejected its credentials at call time.
	ErrAuthentication = errors.New("llm provider rejected credentials")
	// ErrModelInvoke covers any other model failure during classification or
	// synthesis; it aborts the request.
	ErrModelInvoke = errors.New("model invoke failed")
	// ErrValidation marks malformed input or pipeline state.
	ErrValidation = errors.New("validation failed")
)
