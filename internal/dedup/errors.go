// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import "errors"

var (
	// ErrInvalidArgument reports a structurally invalid argument, such as a
	// threshold outside [0, 1] or a non-finite weight.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInternalScoring reports a failure inside a scoring worker.
	ErrInternalScoring = errors.New("internal scoring failure")
)
