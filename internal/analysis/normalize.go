package analysis

import (
	"strings"
	"time"
)

// successResult is the only free-text result treated as a delivered message.
const successResult = "successfully delivered"

// timestampLayouts are the accepted timestamp formats, tried in order.
// Campaign exports use RFC3339-ish strings; older exports emit a space
// separator with an explicit " UTC" suffix.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizePhone strips non-digit characters and the US country-code prefix.
// It returns the canonical number and whether the row is acceptable: exactly
// 10 digits by default, or 7+ digits when allowShort is set.
func NormalizePhone(raw string, allowShort bool) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}

	if len(digits) == 10 {
		return digits, true
	}
	if allowShort && len(digits) >= 7 {
		return digits, true
	}
	return "", false
}

// ParseTimestamp parses an export timestamp. The literal " UTC" suffix is
// accepted by treating it as UTC directly.
func ParseTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if trimmed, ok := strings.CutSuffix(s, " UTC"); ok {
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.UTC(), true
			}
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// firstNonEmpty returns the first non-blank value, implementing the column
// fallback order for aliased export fields.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// NormalizeRow validates and coerces one raw row into a canonical Attempt.
// It returns false when the row is unusable (no normalizable phone number,
// or a present-but-unparseable timestamp).
func NormalizeRow(row RawRow, allowShort bool) (Attempt, bool) {
	phone, ok := NormalizePhone(firstNonEmpty(row.Number, row.PhoneNumber), allowShort)
	if !ok {
		return Attempt{}, false
	}

	a := Attempt{
		PhoneNumber:  phone,
		MessageID:    firstNonEmpty(row.MessageID),
		CallerNumber: firstNonEmpty(row.CallerNumber, row.VoappsCallerNumber),
		AccountID:    firstNonEmpty(row.AccountID),
		CampaignID:   firstNonEmpty(row.CampaignID),
		CampaignName: firstNonEmpty(row.CampaignName),
	}

	rawTS := firstNonEmpty(row.VoappsTimestamp, row.Timestamp)
	result := strings.ToLower(strings.TrimSpace(firstNonEmpty(row.VoappsResult, row.Result)))

	if rawTS == "" {
		// No timestamp: the contact was filtered out before any delivery
		// attempt. Kept for entity-usage visibility only.
		a.Category = OtherNonAttempt
		return a, true
	}

	ts, ok := ParseTimestamp(rawTS)
	if !ok {
		return Attempt{}, false
	}

	a.Timestamp = ts
	a.HourOfDay = ts.Hour()
	a.DayOfWeek = int(ts.Weekday())
	if result == successResult {
		a.Category = Success
	} else {
		a.Category = UnsuccessfulAttempt
	}
	return a, true
}
