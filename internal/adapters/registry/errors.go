package registry

import "errors"

// Sentinel errors for definition loading.
var (
	ErrLoadDefinitions   = errors.New("load definitions")
	ErrInvalidDefinition = errors.New("invalid definition")
)
