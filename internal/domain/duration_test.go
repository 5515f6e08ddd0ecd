package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration_Forms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		form     DurationForm
		expected Hours
	}{
		{name: "padded clock", input: "01:30", form: FormClock, expected: 1.5},
		{name: "unpadded clock", input: "2:15", form: FormClock, expected: 2.25},
		{name: "single digit minutes", input: "3:5", form: FormClock, expected: HoursFromMinutes(185)},
		{name: "clock with spaces", input: " 1 : 45 ", form: FormClock, expected: 1.75},
		{name: "large clock hours", input: "123:04", form: FormClock, expected: HoursFromMinutes(123*60 + 4)},
		{name: "zero clock", input: "00:00", form: FormClock, expected: 0},
		{name: "decimal", input: "1.5", form: FormDecimal, expected: 1.5},
		{name: "decimal leading point", input: ".25", form: FormDecimal, expected: 0.25},
		{name: "decimal trailing point", input: "4.", form: FormDecimal, expected: 4},
		{name: "bare integer", input: "2", form: FormDecimal, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ParseDuration(tt.input)
			require.True(t, in.Valid(), "unexpected failure: %v", in.Err)
			assert.Equal(t, tt.form, in.Form)
			assert.InDelta(t, float64(tt.expected), float64(in.Hours), 1e-9)
		})
	}
}

func TestDecodeDuration_Rejects(t *testing.T) {
	inputs := []string{"", "   ", "abc", "1:60", "1:75", "-1", "-1:30", "-0.5", "1:2:3", "1.2.3", ".", ":30", "1:", "1,5", "1h30", "1:030",
		"153722867280912931:00", "1000000:00", "1000000", "99999999999999999999.5",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			h, err := DecodeDuration(input)
			require.Error(t, err)
			assert.Zero(t, h)

			var pf *ParseFailure
			assert.True(t, errors.As(err, &pf), "expected ParseFailure, got %T", err)
			assert.Equal(t, input, pf.Input)
			assert.Equal(t, FormInvalid, ParseDuration(input).Form)
		})
	}
}

func TestEncodeDuration(t *testing.T) {
	tests := []struct {
		hours    Hours
		expected string
	}{
		{0, "00:00"},
		{1.5, "01:30"},
		{3.75, "03:45"},
		{2, "02:00"},
		{100.25, "100:15"},
		// 1.999 h is 119.94 min; the remainder is truncated
		{1.999, "01:59"},
		{HoursFromMinutes(61) + 0.0001, "01:01"},
		{-1, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, EncodeDuration(tt.hours))
		})
	}
}

func TestEncodeDuration_SurvivesStoredPrecision(t *testing.T) {
	tests := []struct {
		text   string
		stored Hours
	}{
		{"00:02", 0.0333},
		{"01:20", 1.3333},
		{"03:20", 3.3333},
		{"00:01", 0.0167},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h, err := DecodeDuration(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.text, EncodeDuration(h))
			assert.Equal(t, tt.text, EncodeDuration(tt.stored), "four-decimal value %v", tt.stored)
		})
	}
}

func TestHours_MinutesBounded(t *testing.T) {
	assert.Equal(t, math.MaxInt32, Hours(1e300).Minutes())
	assert.Equal(t, math.MaxInt32, Hours(math.Inf(1)).Minutes())
	assert.Equal(t, 0, Hours(math.NaN()).Minutes())
	assert.Equal(t, maxDurationHours*60, Hours(maxDurationHours).Minutes())
}

func TestNormalizeDuration(t *testing.T) {
	out, err := NormalizeDuration("1.5")
	require.NoError(t, err)
	assert.Equal(t, "01:30", out)

	out, err = NormalizeDuration("2")
	require.NoError(t, err)
	assert.Equal(t, "02:00", out)

	out, err = NormalizeDuration("7:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", out)

	_, err = NormalizeDuration("nope")
	assert.Error(t, err)
}

func TestDuration_RoundTrip(t *testing.T) {
	for minutes := 0; minutes <= 48*60; minutes++ {
		x := HoursFromMinutes(minutes)
		got, err := DecodeDuration(EncodeDuration(x))
		require.NoError(t, err)
		require.InDelta(t, float64(x), float64(got), 1e-9, "minutes=%d", minutes)
		require.Equal(t, minutes, got.Minutes())
	}
}

func TestHours_Minutes(t *testing.T) {
	assert.Equal(t, 90, Hours(1.5).Minutes())
	assert.Equal(t, 20, Hours(1.0/3.0).Minutes())
	assert.Equal(t, 0, Hours(-2).Minutes())
	assert.Equal(t, "03:45", Hours(3.75).String())
}
