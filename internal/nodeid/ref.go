// internal/nodeid/ref.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// DestinationRef is the reference to the output surface.
const DestinationRef = "destination"

// segmentRegex matches a single segment of a reference.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Ref is a composition-level node reference such as `video.intro`.
type Ref struct {
	Kind string
	Name string
}

// IsDestination reports whether the reference names the output surface.
func (r Ref) IsDestination() bool {
	return r.Kind == DestinationRef && r.Name == ""
}

// String serializes the reference into its canonical form.
func (r Ref) String() string {
	if r.Name == "" {
		return r.Kind
	}
	return r.Kind + "." + r.Name
}

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-" && name != "_"
}

// ParseRef parses the canonical `kind.name` form.
func ParseRef(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("reference cannot be empty")
	}
	if raw == DestinationRef {
		return Ref{Kind: DestinationRef}, nil
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return Ref{}, fmt.Errorf("reference %q must have the form kind.name", raw)
	}
	for _, segment := range parts {
		if segment == "" {
			return Ref{}, fmt.Errorf("reference %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) {
			return Ref{}, fmt.Errorf("invalid reference segment format: %q", segment)
		}
		if !isValidSegmentName(segment) {
			return Ref{}, fmt.Errorf("invalid reference segment name: %q", segment)
		}
	}
	return Ref{Kind: parts[0], Name: parts[1]}, nil
}
