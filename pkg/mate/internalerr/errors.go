package internalerr

import "errors"

// Sentinel errors shared by the pipeline packages
var (
	ErrNoTokenizer      = errors.New("no tokenizer configured")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoResult         = errors.New("stage returned no sentence")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidModel     = errors.New("invalid model")
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)
