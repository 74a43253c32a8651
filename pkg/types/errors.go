// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrTopicOutOfRange is returned under OverflowReject when a paper names a
// topic that has no criterion.
var ErrTopicOutOfRange = errors.New("topic id out of range")

// ErrMalformedCriterion is returned when a retained criterion line has no
// integer before its first period.
var ErrMalformedCriterion = errors.New("malformed criterion")

// MissingFieldError reports a paper record without one of its required
// fields (arxiv_id, title, authors, abstract).
type MissingFieldError struct {
	Key   string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("paper %q: missing required field %q", e.Key, e.Field)
}

// FileAccessError wraps a failure to read or write one of the tool's files.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }
