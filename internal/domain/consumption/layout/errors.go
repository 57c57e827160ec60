package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRegionRead is returned when a declared region lies outside the sheet.
	ErrRegionRead = errors.New("region lies outside the sheet")
	// ErrInvalidRegion is returned for a malformed region declaration.
	ErrInvalidRegion = errors.New("invalid region")
	// ErrUnresolvedFields is returned when required fields have no matching header.
	ErrUnresolvedFields = errors.New("required fields not found in headers")
	// ErrEmptySheet is returned when the sheet holds no cells at all.
	ErrEmptySheet = errors.New("sheet is empty")
)

// Diagnostic is the user-facing part of a LayoutError.
type Diagnostic struct {
	Sheet             string              `json:"sheet,omitempty"`
	Region            string              `json:"region,omitempty"`
	MissingFields     []string            `json:"missing_fields,omitempty"`
	DiscoveredHeaders []string            `json:"discovered_headers,omitempty"`
	Suggestions       map[string][]string `json:"suggestions,omitempty"`
}

// LayoutError reports why a strategy could not produce a table.
type LayoutError struct {
	Strategy string
	Diagnostic
	Err error
}

func (e *LayoutError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Strategy != "" {
		fmt.Fprintf(&b, " (strategy %s", e.Strategy)
		if e.Sheet != "" {
			fmt.Fprintf(&b, ", sheet %q", e.Sheet)
		}
		b.WriteString(")")
	}
	if e.Region != "" {
		fmt.Fprintf(&b, ": region %s", e.Region)
	}
	if len(e.MissingFields) > 0 {
		fmt.Fprintf(&b, ": missing %s; found headers %q", strings.Join(e.MissingFields, ", "), e.DiscoveredHeaders)
	}
	return b.String()
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// AsLayoutError extracts a *LayoutError from err's chain.
func AsLayoutError(err error) (*LayoutError, bool) {
	var le *LayoutError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
