package prefseditor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Subrange is an inclusive interval of unsigned integers.
type Subrange struct {
	Low  uint32 `json:"low"`
	High uint32 `json:"high"`
}

// Range is an ordered list of subranges such as "1-20,30,40-".
type Range []Subrange

// RangeStatus is the outcome of ValidateRangeSyntax.
type RangeStatus int

const (
	// RangeEmpty means the text is empty.
	RangeEmpty RangeStatus = iota
	// RangeOK means the text parses and every bound is within the maximum.
	RangeOK
	// RangeInvalid means the text has a syntax error or a bound exceeds the maximum.
	RangeInvalid
)

func (s RangeStatus) String() string {
	switch s {
	case RangeEmpty:
		return "empty"
	case RangeOK:
		return "ok"
	default:
		return "invalid"
	}
}

var (
	errRangeSyntax   = errors.New("range syntax error")
	errRangeTooLarge = errors.New("range bound exceeds maximum")
)

// ParseRange parses a comma separated list of "N", "N-M", "-M" or "N-" elements.
// A missing low bound means 0 and a missing high bound means maxValue.
// Blank text yields an empty range.
func ParseRange(text string, maxValue uint32) (Range, error) {
	if strings.TrimSpace(text) == "" {
		return Range{}, nil
	}

	var r Range
	for _, elem := range strings.Split(text, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return nil, fmt.Errorf("%w: %w: empty element in %q", ErrInvalidValue, errRangeSyntax, text)
		}

		lowStr, highStr, isSpan := strings.Cut(elem, "-")
		lowStr = strings.TrimSpace(lowStr)
		highStr = strings.TrimSpace(highStr)

		var sr Subrange
		var err error
		if !isSpan {
			if sr.Low, err = parseBound(lowStr, maxValue); err != nil {
				return nil, err
			}
			sr.High = sr.Low
		} else {
			if lowStr != "" {
				if sr.Low, err = parseBound(lowStr, maxValue); err != nil {
					return nil, err
				}
			}
			sr.High = maxValue
			if highStr != "" {
				if sr.High, err = parseBound(highStr, maxValue); err != nil {
					return nil, err
				}
			}
		}
		if sr.Low > sr.High {
			return nil, fmt.Errorf("%w: %w: %d is greater than %d", ErrInvalidValue, errRangeSyntax, sr.Low, sr.High)
		}
		r = append(r, sr)
	}
	return r, nil
}

func parseBound(s string, maxValue uint32) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %w: %s", ErrInvalidValue, errRangeTooLarge, s)
		}
		return 0, fmt.Errorf("%w: %w: %q is not a number", ErrInvalidValue, errRangeSyntax, s)
	}
	if n > uint64(maxValue) {
		return 0, fmt.Errorf("%w: %w: %d > %d", ErrInvalidValue, errRangeTooLarge, n, maxValue)
	}
	return uint32(n), nil
}

// ValidateRangeSyntax classifies text as empty, valid or invalid for a range bounded by maxValue.
func ValidateRangeSyntax(text string, maxValue uint32) RangeStatus {
	if strings.TrimSpace(text) == "" {
		return RangeEmpty
	}
	if _, err := ParseRange(text, maxValue); err != nil {
		return RangeInvalid
	}
	return RangeOK
}

// String formats the range in the syntax accepted by ParseRange.
func (r Range) String() string {
	parts := make([]string, 0, len(r))
	for _, sr := range r {
		if sr.Low == sr.High {
			parts = append(parts, strconv.FormatUint(uint64(sr.Low), 10))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d-%d", sr.Low, sr.High))
	}
	return strings.Join(parts, ",")
}

// Contains reports whether v falls inside any subrange.
func (r Range) Contains(v uint32) bool {
	for _, sr := range r {
		if v >= sr.Low && v <= sr.High {
			return true
		}
	}
	return false
}

// Max returns the largest high bound, or 0 for an empty range.
func (r Range) Max() uint32 {
	var m uint32
	for _, sr := range r {
		if sr.High > m {
			m = sr.High
		}
	}
	return m
}

func (r Range) Clone() Range {
	if r == nil {
		return Range{}
	}
	out := make(Range, len(r))
	copy(out, r)
	return out
}

func (r Range) Equal(o Range) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}
