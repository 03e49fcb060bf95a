// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// SourceOpenError reports that the source document is missing or could
// not be parsed.
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("opening source %s: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error { return e.Err }

// FormatError reports a malformed value, such as a hex color that is not
// six hex digits.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
}

// LayoutError reports a page whose geometry cannot be mapped onto the
// canvas, for example a zero-sized page.
type LayoutError struct {
	Page   int
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("laying out page %d: %s", e.Page, e.Reason)
}

// OutputWriteError reports that the output deck could not be written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("writing output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }
