package types

import (
	"fmt"
	"strconv"
	"strings"
)

// EVR is an RPM-style epoch:version-release string. Version is EVR with a
// zero epoch and empty release, per spec.md §4.7 ("Version. Delegated to EVR
// with epoch 0 and empty release.").
type EVR struct {
	Epoch   int64
	Version string
	Release string
}

// String renders the canonical `[epoch:]version[-release]` form.
func (e EVR) String() string {
	var sb strings.Builder
	if e.Epoch != 0 {
		fmt.Fprintf(&sb, "%d:", e.Epoch)
	}
	sb.WriteString(e.Version)
	if e.Release != "" {
		sb.WriteString("-")
		sb.WriteString(e.Release)
	}
	return sb.String()
}

// ParseEVR parses `[epoch:]version[-release]`. Epoch defaults to 0 when
// absent; release defaults to "" when absent.
func ParseEVR(s string) (EVR, error) {
	var evr EVR

	rest := s
	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		epochStr := rest[:idx]
		rest = rest[idx+1:]
		epoch, err := strconv.ParseInt(epochStr, 10, 64)
		if err != nil {
			return EVR{}, fmt.Errorf("evr: invalid epoch %q: %w", epochStr, err)
		}
		evr.Epoch = epoch
	}

	if idx := strings.LastIndexByte(rest, '-'); idx >= 0 {
		evr.Version = rest[:idx]
		evr.Release = rest[idx+1:]
	} else {
		evr.Version = rest
	}

	if evr.Version == "" {
		return EVR{}, fmt.Errorf("evr: empty version in %q", s)
	}
	return evr, nil
}

// ParseVersion parses a dotted-identifier version string as an EVR with
// epoch 0 and no release.
func ParseVersion(s string) (EVR, error) {
	return EVR{Version: s}, nil
}

// CompareEVR orders two EVRs: epoch numerically first, then version and
// release via RPM-style segmented comparison.
func CompareEVR(a, b EVR) int {
	if a.Epoch != b.Epoch {
		if a.Epoch < b.Epoch {
			return -1
		}
		return 1
	}
	if c := compareRPMSegments(a.Version, b.Version); c != 0 {
		return c
	}
	return compareRPMSegments(a.Release, b.Release)
}

// compareRPMSegments implements RPM's rpmvercmp: the strings are split into
// alternating runs of digits and non-digits (dots and other non-alphanumeric
// characters act purely as separators and are otherwise ignored); digit runs
// compare numerically, alpha runs compare lexicographically byte-by-byte,
// and a digit run always outranks an alpha run. A non-empty remainder beats
// an exhausted one.
func compareRPMSegments(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) || bi < len(b) {
		// Skip separator runs (anything that is neither a letter nor a digit).
		for ai < len(a) && !isAlnum(a[ai]) {
			ai++
		}
		for bi < len(b) && !isAlnum(b[bi]) {
			bi++
		}

		if ai >= len(a) && bi >= len(b) {
			return 0
		}
		if ai >= len(a) {
			return -1
		}
		if bi >= len(b) {
			return 1
		}

		aDigit := isDigit(a[ai])
		bDigit := isDigit(b[bi])

		if aDigit != bDigit {
			if aDigit {
				return 1
			}
			return -1
		}

		if aDigit {
			aStart := ai
			for ai < len(a) && isDigit(a[ai]) {
				ai++
			}
			bStart := bi
			for bi < len(b) && isDigit(b[bi]) {
				bi++
			}
			aSeg := strings.TrimLeft(a[aStart:ai], "0")
			bSeg := strings.TrimLeft(b[bStart:bi], "0")
			if len(aSeg) != len(bSeg) {
				if len(aSeg) < len(bSeg) {
					return -1
				}
				return 1
			}
			if aSeg != bSeg {
				if aSeg < bSeg {
					return -1
				}
				return 1
			}
			continue
		}

		aStart := ai
		for ai < len(a) && isAlpha(a[ai]) {
			ai++
		}
		bStart := bi
		for bi < len(b) && isAlpha(b[bi]) {
			bi++
		}
		aSeg := a[aStart:ai]
		bSeg := b[bStart:bi]
		if aSeg != bSeg {
			if aSeg < bSeg {
				return -1
			}
			return 1
		}
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
