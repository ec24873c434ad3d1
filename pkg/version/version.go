// Package version classifies a schema's declared version against the set of
// majors this interpreter supports.
package version

import (
	"regexp"
	"strconv"
	"strings"
)

// Status is the outcome of gating a declared schema version.
type Status string

const (
	// StatusInvalid marks versions that fail the numeric-dot-numeric pattern.
	// Terminal: rendering stops.
	StatusInvalid Status = "invalid"
	// StatusLegacy marks major 0 or absent versions. Rendering proceeds with
	// an upgrade advisory.
	StatusLegacy Status = "legacy"
	// StatusUnsupported marks parseable majors outside the supported set.
	// Terminal: rendering stops.
	StatusUnsupported Status = "unsupported"
	// StatusSupported marks versions this interpreter renders natively.
	StatusSupported Status = "supported"
)

// LegacySentinel is assumed when a payload declares no version at all.
const LegacySentinel = "0"

// SupportedMajors is the fixed set of schema majors this build renders.
var SupportedMajors = map[int]struct{}{1: {}}

var versionPattern = regexp.MustCompile(`^\d+(\.\d+)?(\.\d+)?$`)

// Version is a parsed declared version. Minor and Patch are -1 when absent.
type Version struct {
	Raw   string
	Major int
	Minor int
	Patch int
}

// Parse splits a raw declaration into numeric components. ok is false when
// the raw string does not match the version pattern.
func Parse(raw string) (Version, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = LegacySentinel
	}
	if !versionPattern.MatchString(trimmed) {
		return Version{Raw: raw, Minor: -1, Patch: -1}, false
	}

	out := Version{Raw: raw, Minor: -1, Patch: -1}
	parts := strings.Split(trimmed, ".")
	out.Major, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		out.Minor, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		out.Patch, _ = strconv.Atoi(parts[2])
	}
	return out, true
}

// Gate classifies a declared version string. Absent versions default to the
// legacy sentinel.
func Gate(raw string) Status {
	parsed, ok := Parse(raw)
	if !ok {
		return StatusInvalid
	}
	if parsed.Major == 0 {
		return StatusLegacy
	}
	if _, supported := SupportedMajors[parsed.Major]; !supported {
		return StatusUnsupported
	}
	return StatusSupported
}

// Blocks reports whether the status is terminal for rendering.
func (s Status) Blocks() bool {
	return s == StatusInvalid || s == StatusUnsupported
}
