package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hours is an amount of time in decimal hours
type Hours float64

const (
	// minuteEpsilon absorbs float and storage rounding noise, in minutes,
	// before truncating to whole minutes
	minuteEpsilon = 0.005

	// maxDurationHours bounds a single duration text
	maxDurationHours = 999999

	maxMinutes = math.MaxInt32
)

// HoursFromMinutes converts whole minutes to decimal hours
func HoursFromMinutes(minutes int) Hours {
	return Hours(float64(minutes) / 60)
}

// Minutes returns h in whole minutes, truncating any sub-minute remainder
func (h Hours) Minutes() int {
	if h <= 0 || math.IsNaN(float64(h)) {
		return 0
	}
	m := math.Floor(float64(h)*60 + minuteEpsilon)
	if m >= maxMinutes {
		return maxMinutes
	}
	return int(m)
}

// String renders h as HH:MM
func (h Hours) String() string {
	return EncodeDuration(h)
}

// DurationForm tags how a piece of duration text was interpreted
type DurationForm string

const (
	// FormClock is "H:MM" / "HH:MM" text
	FormClock DurationForm = "clock"
	// FormDecimal is decimal-hour text such as "1.5" or a bare integer "2"
	FormDecimal DurationForm = "decimal"
	// FormInvalid is text that could not be read
	FormInvalid DurationForm = "invalid"
)

// DurationInput is the result of reading human-entered duration text
type DurationInput struct {
	Text  string
	Form  DurationForm
	Hours Hours
	Err   *ParseFailure
}

// Valid reports whether the text was readable
func (in DurationInput) Valid() bool {
	return in.Form != FormInvalid
}

// ParseDuration classifies and reads duration text.
//
// Text containing ':' is a clock duration. Text containing '.' but no ':'
// is decimal hours. Text made only of digits is whole hours ("2" is 02:00).
// Anything else, negative values and minutes >= 60 are invalid.
func ParseDuration(text string) DurationInput {
	in := DurationInput{Text: text, Form: FormInvalid}
	s := strings.TrimSpace(text)

	switch {
	case s == "":
		in.Err = parseFailure(text, "empty value")
	case strings.HasPrefix(s, "-"):
		in.Err = parseFailure(text, "negative durations are not allowed")
	case strings.Contains(s, ":"):
		h, err := parseClockDuration(text, s)
		if err != nil {
			in.Err = err
			break
		}
		in.Form, in.Hours = FormClock, h
	case strings.Contains(s, "."):
		h, err := parseDecimalHours(text, s)
		if err != nil {
			in.Err = err
			break
		}
		in.Form, in.Hours = FormDecimal, h
	default:
		if !isDigits(s) {
			in.Err = parseFailure(text, "not a number")
			break
		}
		n, err := strconv.Atoi(s)
		if err != nil || n > maxDurationHours {
			in.Err = parseFailure(text, "hours out of range")
			break
		}
		in.Form, in.Hours = FormDecimal, Hours(n)
	}

	return in
}

// DecodeDuration reads duration text into decimal hours
func DecodeDuration(text string) (Hours, error) {
	in := ParseDuration(text)
	if !in.Valid() {
		return 0, in.Err
	}
	return in.Hours, nil
}

// EncodeDuration renders decimal hours as zero-padded HH:MM.
// Sub-minute remainders are truncated, not rounded.
func EncodeDuration(h Hours) string {
	total := h.Minutes()
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// NormalizeDuration rewrites any accepted duration text as HH:MM
func NormalizeDuration(text string) (string, error) {
	h, err := DecodeDuration(text)
	if err != nil {
		return "", err
	}
	return EncodeDuration(h), nil
}

func parseClockDuration(raw, s string) (Hours, *ParseFailure) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, parseFailure(raw, "expected HH:MM")
	}

	hh := strings.TrimSpace(parts[0])
	mm := strings.TrimSpace(parts[1])
	if !isDigits(hh) || !isDigits(mm) || len(mm) > 2 {
		return 0, parseFailure(raw, "expected HH:MM")
	}

	hours, convErr := strconv.Atoi(hh)
	if convErr != nil || hours > maxDurationHours {
		return 0, parseFailure(raw, "hours out of range")
	}
	minutes, _ := strconv.Atoi(mm)
	if minutes > 59 {
		return 0, parseFailure(raw, "minutes must be between 00 and 59")
	}

	return HoursFromMinutes(hours*60 + minutes), nil
}

func parseDecimalHours(raw, s string) (Hours, *ParseFailure) {
	if strings.Count(s, ".") != 1 {
		return 0, parseFailure(raw, "not a number")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, parseFailure(raw, "not a number")
	}
	if (whole != "" && !isDigits(whole)) || (frac != "" && !isDigits(frac)) {
		return 0, parseFailure(raw, "not a number")
	}

	v, convErr := strconv.ParseFloat(s, 64)
	if convErr != nil || math.IsInf(v, 0) {
		return 0, parseFailure(raw, "not a number")
	}
	if v > maxDurationHours {
		return 0, parseFailure(raw, "hours out of range")
	}
	return Hours(v), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
