package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleInt accepts a JSON number or a numeric string.
type FlexibleInt struct {
	Value int
	Set   bool
}

func (fi *FlexibleInt) UnmarshalJSON(data []byte) error {
	if fi == nil {
		return fmt.Errorf("FlexibleInt: nil receiver")
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, ok := wholeNumber(s)
		if !ok {
			return fmt.Errorf("FlexibleInt: %q is not an integer", s)
		}
		*fi = FlexibleInt{Value: n, Set: true}
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		n, ok := wholeNumber(num.String())
		if !ok {
			return fmt.Errorf("FlexibleInt: %s is not an integer", num)
		}
		*fi = FlexibleInt{Value: n, Set: true}
		return nil
	}

	return fmt.Errorf("FlexibleInt: expected number or string, got %s", string(data))
}

// wholeNumber parses s as an integer, also accepting integral decimals such
// as "2.0" or "4e0". Fractional values are rejected.
func wholeNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// FlexibleBool accepts a JSON boolean or a string. Only the string "true"
// (any case) means true; every other string, including "", means false.
type FlexibleBool bool

func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	if fb == nil {
		return fmt.Errorf("FlexibleBool: nil receiver")
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*fb = FlexibleBool(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*fb = FlexibleBool(strings.EqualFold(strings.TrimSpace(s), "true"))
		return nil
	}

	return fmt.Errorf("FlexibleBool: expected boolean or string, got %s", string(data))
}
