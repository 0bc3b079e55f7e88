package tool

import "errors"

// ErrNotFound reports a call referencing a tool name with no registration.
// Returned errors wrap it with the offending name; match with errors.Is.
var ErrNotFound = errors.New("tool not registered")

// ErrAlreadyRegistered reports a second registration under an existing name.
// Use Replace when overwriting is intended.
var ErrAlreadyRegistered = errors.New("tool already registered")
