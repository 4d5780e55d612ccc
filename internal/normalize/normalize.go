package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Columns canonicalizes the column names of a raw row: names are trimmed
// and lowercased, and a row carrying a sequence-number alias ("no") without
// an appointment_id gets the alias renamed to appointment_id.
func Columns(row map[string]string) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	if _, ok := out["appointment_id"]; !ok {
		if v, ok := out["no"]; ok {
			out["appointment_id"] = v
			delete(out, "no")
		}
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
}

// Date parses a calendar date permissively ("/" or "-" separators, with or
// without zero padding) into canonical YYYY-MM-DD form. An unparseable value
// is passed through unchanged: downstream matching on it will simply fail,
// which is the documented degraded mode, not a fatal error.
func Date(s string) string {
	raw := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04",
}

// Clock parses a time of day (H:MM, HH:MM, or HH:MM:SS) into zero-padded
// HH:MM form. When no layout matches, each numeric colon-separated component
// is zero-padded manually; if that also fails, the raw value passes through.
func Clock(s string) string {
	raw := strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04")
		}
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return raw
	}
	padded := make([]string, 0, 2)
	for _, p := range parts[:2] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return raw
		}
		padded = append(padded, fmt.Sprintf("%02d", n))
	}
	return padded[0] + ":" + padded[1]
}

// ID canonicalizes a slot identifier for comparison. The external store may
// hand the same id back as "3", 3, or "3.0" depending on the medium, so
// every id comparison in the repo goes through this string form.
func ID(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return s
	}
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// IDFromInt is the integer entry point to the same canonical form.
func IDFromInt(n int) string {
	return strconv.Itoa(n)
}
