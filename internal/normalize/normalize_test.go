package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns(t *testing.T) {
	testCases := []struct {
		name     string
		row      map[string]string
		expected map[string]string
	}{
		{
			name:     "Trims and lowercases names",
			row:      map[string]string{" Date ": "2025-12-06", "TIME": "09:00"},
			expected: map[string]string{"date": "2025-12-06", "time": "09:00"},
		},
		{
			name:     "Renames no alias when appointment_id is absent",
			row:      map[string]string{"No": "3", "user_name": "A"},
			expected: map[string]string{"appointment_id": "3", "user_name": "A"},
		},
		{
			name:     "Keeps no alias when appointment_id is present",
			row:      map[string]string{"no": "7", "appointment_id": "3"},
			expected: map[string]string{"no": "7", "appointment_id": "3"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Columns(tc.row))
		})
	}
}

func TestDate(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"2025-12-06", "2025-12-06"},
		{"2025/12/2", "2025-12-02"},
		{"2025-1-2", "2025-01-02"},
		{" 2025/01/15 ", "2025-01-15"},
		{"not a date", "not a date"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Date(tc.in), "input %q", tc.in)
	}
}

func TestClock(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"09:00", "09:00"},
		{"9:30", "09:30"},
		{"14:05:59", "14:05"},
		{"9:0", "09:00"},
		{"7:5", "07:05"},
		{"noonish", "noonish"},
		{"25:cc", "25:cc"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Clock(tc.in), "input %q", tc.in)
	}
}

func TestID(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"3", "3"},
		{" 3 ", "3"},
		{"3.0", "3"},
		{"03", "3"},
		{"3.5", "3.5"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ID(tc.in), "input %q", tc.in)
	}

	assert.Equal(t, "12", IDFromInt(12))
}
