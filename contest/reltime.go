package contest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RelTime is a contest-relative duration encoded as "[-]HH:MM:SS[.ffffff]".
// Fractional seconds are accepted and truncated.
type RelTime time.Duration

func ParseRelTime(s string) (RelTime, error) {
	negative := strings.HasPrefix(s, "-")
	trimmed := strings.TrimPrefix(s, "-")

	parts := strings.Split(trimmed, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration format: %q", s)
	}

	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	minutes, err := parseSexagesimal(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}

	whole, frac, hasFrac := strings.Cut(parts[2], ".")
	seconds, err := parseSexagesimal(whole)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", s, err)
	}
	if hasFrac && !allDigits(frac) {
		return 0, fmt.Errorf("invalid fractional seconds in %q", s)
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	if negative {
		total = -total
	}
	return RelTime(total), nil
}

// parseSexagesimal parses a minutes or seconds field: digits only, below 60.
func parseSexagesimal(field string) (uint64, error) {
	v, err := strconv.ParseUint(field, 10, 8)
	if err != nil {
		return 0, err
	}
	if v >= 60 {
		return 0, fmt.Errorf("%d is out of range", v)
	}
	return v, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (r RelTime) Duration() time.Duration {
	return time.Duration(r)
}

func (r RelTime) String() string {
	d := time.Duration(r)
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%s%d:%02d:%02d.000", sign, h, m, s)
}

func (r *RelTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := ParseRelTime(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r RelTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// ContestMinutes is the whole number of minutes in d, rounded toward
// negative infinity.
func ContestMinutes(d time.Duration) int64 {
	m := int64(d / time.Minute)
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}
