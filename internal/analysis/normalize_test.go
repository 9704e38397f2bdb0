package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		allowShort bool
		want       string
		ok         bool
	}{
		{name: "plain ten digits", raw: "5551234567", want: "5551234567", ok: true},
		{name: "formatted", raw: "(555) 123-4567", want: "5551234567", ok: true},
		{name: "country code stripped", raw: "+1 555 123 4567", want: "5551234567", ok: true},
		{name: "eleven digits not leading one", raw: "25551234567", ok: false},
		{name: "too short", raw: "12345", ok: false},
		{name: "nine digits rejected by default", raw: "555123456", ok: false},
		{name: "nine digits allowed when short ok", raw: "555123456", allowShort: true, want: "555123456", ok: true},
		{name: "seven digit floor", raw: "1234567", allowShort: true, want: "1234567", ok: true},
		{name: "six digits always rejected", raw: "123456", allowShort: true, ok: false},
		{name: "no digits", raw: "n/a", ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.raw, tt.allowShort)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2025-03-04 15:30:00 UTC")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2025-03-04T15:30:00Z")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 4, 15, 30, 0, 0, time.UTC), ts)

	_, ok = ParseTimestamp("not a time")
	assert.False(t, ok)

	_, ok = ParseTimestamp("")
	assert.False(t, ok)
}

func TestNormalizeRow_ResultClassification(t *testing.T) {
	row := RawRow{Number: "5551234567", VoappsTimestamp: "2025-03-04 15:30:00 UTC"}

	row.VoappsResult = "Successfully Delivered"
	a, ok := NormalizeRow(row, false)
	require.True(t, ok)
	assert.Equal(t, Success, a.Category)

	row.VoappsResult = "Unsuccessful delivery attempt"
	a, ok = NormalizeRow(row, false)
	require.True(t, ok)
	assert.Equal(t, UnsuccessfulAttempt, a.Category)

	// Any non-success outcome with a timestamp is an unsuccessful attempt.
	row.VoappsResult = "Carrier rejected"
	a, ok = NormalizeRow(row, false)
	require.True(t, ok)
	assert.Equal(t, UnsuccessfulAttempt, a.Category)
}

func TestNormalizeRow_NoTimestampIsNonAttempt(t *testing.T) {
	a, ok := NormalizeRow(RawRow{Number: "5551234567", VoappsResult: "Filtered: wireless"}, false)
	require.True(t, ok)
	assert.Equal(t, OtherNonAttempt, a.Category)
	assert.True(t, a.Timestamp.IsZero())
}

func TestNormalizeRow_BadTimestampRejected(t *testing.T) {
	_, ok := NormalizeRow(RawRow{Number: "5551234567", VoappsTimestamp: "yesterday"}, false)
	assert.False(t, ok)
}

func TestNormalizeRow_FieldFallbacks(t *testing.T) {
	a, ok := NormalizeRow(RawRow{
		PhoneNumber:        "5551234567",
		Timestamp:          "2025-03-04 15:30:00 UTC",
		Result:             "successfully delivered",
		VoappsCallerNumber: "8005550100",
	}, false)
	require.True(t, ok)
	assert.Equal(t, "5551234567", a.PhoneNumber)
	assert.Equal(t, Success, a.Category)
	assert.Equal(t, "8005550100", a.CallerNumber)

	// Primary columns win over aliases.
	a, ok = NormalizeRow(RawRow{
		Number:       "5551234567",
		PhoneNumber:  "9995551234",
		Timestamp:    "2025-03-04 15:30:00 UTC",
		CallerNumber: "8005550100",
	}, false)
	require.True(t, ok)
	assert.Equal(t, "5551234567", a.PhoneNumber)
	assert.Equal(t, "8005550100", a.CallerNumber)
}

func TestNormalizeRow_DerivedTimeFields(t *testing.T) {
	// 2025-03-04 is a Tuesday.
	a, ok := NormalizeRow(RawRow{Number: "5551234567", VoappsTimestamp: "2025-03-04 15:30:00 UTC", VoappsResult: "x"}, false)
	require.True(t, ok)
	assert.Equal(t, 15, a.HourOfDay)
	assert.Equal(t, 2, a.DayOfWeek)
}
