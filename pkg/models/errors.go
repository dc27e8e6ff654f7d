package models

import "errors"

// Root-level and configuration errors. Only these abort the pipeline;
// every other failure is captured per-pair in a ComparisonResult.
var (
	ErrRootNotFound   = errors.New("root not found")
	ErrRootUnreadable = errors.New("root unreadable")
	ErrRegexInvalid   = errors.New("ignore_regex failed to compile")
	ErrRegexTooLarge  = errors.New("ignore_regex exceeds compiled-size or DFA-size cap")
)
