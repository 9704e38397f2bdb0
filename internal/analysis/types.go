// Package analysis implements the delivery intelligence engine: it turns a
// flat stream of per-attempt delivery records into per-number health
// classifications, variability scores, consecutive-failure runs, a global
// retry-decay curve, and entity-level rollups.
package analysis

import "time"

// RawRow is one loosely-typed input row as produced by the CSV reader or the
// campaign API client. Fields come in pairs where exports disagree on column
// naming; the normalizer applies the documented fallback order (primary
// first, alias second).
type RawRow struct {
	Number             string `json:"number"`
	PhoneNumber        string `json:"phone_number"`
	VoappsTimestamp    string `json:"voapps_timestamp"`
	Timestamp          string `json:"timestamp"`
	VoappsResult       string `json:"voapps_result"`
	Result             string `json:"result"`
	MessageID          string `json:"message_id"`
	CallerNumber       string `json:"caller_number"`
	VoappsCallerNumber string `json:"voapps_caller_number"`
	AccountID          string `json:"account_id"`
	CampaignID         string `json:"campaign_id"`
	CampaignName       string `json:"campaign_name"`
}

// ResultCategory classifies what a row's free-text result means for the
// attempt sequence.
type ResultCategory int

const (
	// Success is an exact lowercase-trimmed match on "successfully delivered".
	Success ResultCategory = iota

	// UnsuccessfulAttempt is any timestamped delivery outcome other than Success.
	UnsuccessfulAttempt

	// OtherNonAttempt is a row without a timestamp: the contact was filtered
	// out before a delivery attempt occurred. These rows never participate in
	// attempt-index, consecutive-failure, or time-histogram logic.
	OtherNonAttempt
)

// String returns the category name used in reports.
func (c ResultCategory) String() string {
	switch c {
	case Success:
		return "success"
	case UnsuccessfulAttempt:
		return "unsuccessful"
	default:
		return "non_attempt"
	}
}

// IsDeliveryAttempt reports whether the category represents an actual contact
// attempt (Success or UnsuccessfulAttempt).
func (c ResultCategory) IsDeliveryAttempt() bool {
	return c == Success || c == UnsuccessfulAttempt
}

// Attempt is one canonical, immutable delivery record derived from a RawRow
// that survived normalization.
type Attempt struct {
	PhoneNumber  string
	Timestamp    time.Time
	Category     ResultCategory
	MessageID    string
	CallerNumber string
	AccountID    string
	CampaignID   string
	CampaignName string

	// HourOfDay (0-23) and DayOfWeek (0=Sunday..6=Saturday) are derived from
	// Timestamp and zero for non-attempts.
	HourOfDay int
	DayOfWeek int

	// AttemptIndex is the number of delivery attempts to this phone number
	// since its last success, at the moment this attempt occurred (1-based).
	// Populated by the aggregator fold; zero for non-attempts.
	AttemptIndex int
}

// NumberProfile is the per-phone-number accumulator built by the aggregator
// fold. It is mutated attempt-by-attempt in timestamp order and read-only
// once the fold completes.
type NumberProfile struct {
	PhoneNumber string

	// Attempts holds the number's delivery attempts in chronological order.
	Attempts []Attempt

	// AttemptIndex counts delivery attempts since the most recent success
	// (or since data start). Reset to 0 immediately after a success.
	AttemptIndex int

	// ConsecutiveFailures counts trailing unsuccessful attempts since the
	// last success.
	ConsecutiveFailures int

	TotalAttempts     int
	SuccessCount      int
	UnsuccessfulCount int

	// LastSuccess is the timestamp of the most recent success, zero if the
	// number has never been delivered to.
	LastSuccess time.Time

	// MessageCounts, CallerCounts and AccountCounts track entity usage per
	// number. Non-attempt rows contribute here (entity visibility) but
	// nowhere else.
	MessageCounts map[string]int
	CallerCounts  map[string]int
	AccountCounts map[string]int

	HourCounts      [24]int
	DayOfWeekCounts [7]int

	// BackToBackIdenticalCount counts attempts whose message id equals the
	// immediately preceding attempt's message id.
	BackToBackIdenticalCount int

	lastMessageID string
	sawAttempt    bool
}

// SuccessRate returns successes over delivery attempts, 0 for zero attempts.
func (p *NumberProfile) SuccessRate() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.TotalAttempts)
}

// HealthLabel is the three-state delivery health classification.
type HealthLabel string

const (
	Healthy   HealthLabel = "healthy"
	Degrading HealthLabel = "degrading"
	Toxic     HealthLabel = "toxic"
)

// NumberSummary is the frozen, report-facing view of one number's profile.
type NumberSummary struct {
	PhoneNumber         string      `json:"phone_number"`
	TotalAttempts       int         `json:"total_attempts"`
	SuccessCount        int         `json:"success_count"`
	UnsuccessfulCount   int         `json:"unsuccessful_count"`
	SuccessRate         float64     `json:"success_rate"`
	ConsecutiveFailures int         `json:"consecutive_failures"`
	AttemptIndex        int         `json:"attempt_index"`
	LastSuccess         *time.Time  `json:"last_success,omitempty"`
	FirstAttempt        time.Time   `json:"first_attempt"`
	LastAttempt         time.Time   `json:"last_attempt"`
	Health              HealthLabel `json:"health"`
	VariabilityScore    int         `json:"variability_score"`
	DistinctMessages    int         `json:"distinct_messages"`
	DistinctCallers     int         `json:"distinct_callers"`
}

// ConsecutiveRun is one maximal qualifying run of consecutive unsuccessful
// delivery attempts to a single number.
type ConsecutiveRun struct {
	PhoneNumber string      `json:"phone_number"`
	Length      int         `json:"length"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	SpanDays    int         `json:"span_days"`
	Open        bool        `json:"open"` // still unbroken at end of data
	Health      HealthLabel `json:"health"`
}

// DecayBucket is one point on the global retry-decay curve.
type DecayBucket struct {
	// AttemptIndex is 1..10 where 10 means "10 or more".
	AttemptIndex int     `json:"attempt_index"`
	Total        int     `json:"total"`
	Successful   int     `json:"successful"`
	Probability  float64 `json:"probability"`
}

// EntityStats is the shared rollup shape for accounts, messages and callers.
type EntityStats struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	Total             int    `json:"total"`
	Successful        int    `json:"successful"`
	Unsuccessful      int    `json:"unsuccessful"`
	UniquePhoneNumber int    `json:"unique_phone_numbers"`
	DayOfWeekCounts   [7]int `json:"day_of_week_counts"`

	// LimitedDayUsage is set when the entity concentrates its attempts on at
	// most two non-Sunday weekdays.
	LimitedDayUsage bool   `json:"limited_day_usage"`
	Recommendation  string `json:"recommendation,omitempty"`
}

// TimeBucket is one row of the hourly or daily global table.
type TimeBucket struct {
	Bucket       int     `json:"bucket"` // hour 0-23 or weekday 0-6
	Total        int     `json:"total"`
	Successful   int     `json:"successful"`
	Unsuccessful int     `json:"unsuccessful"`
	SuccessRate  float64 `json:"success_rate"`
}

// ListGrade is the A-D letter grade for the whole analyzed list.
type ListGrade string

const (
	GradeA ListGrade = "A"
	GradeB ListGrade = "B"
	GradeC ListGrade = "C"
	GradeD ListGrade = "D"
)

// Result is the complete output of one engine invocation.
type Result struct {
	Numbers []NumberSummary  `json:"numbers"`
	Decay   []DecayBucket    `json:"decay_curve"`
	Runs    []ConsecutiveRun `json:"consecutive_runs"`

	AccountStats []EntityStats `json:"account_stats"`
	MessageStats []EntityStats `json:"message_stats"`
	CallerStats  []EntityStats `json:"caller_stats"`

	HourlyGlobal [24]TimeBucket `json:"hourly_global"`
	DailyGlobal  [7]TimeBucket  `json:"daily_global"`

	Grade ListGrade `json:"grade"`

	HealthyCount        int     `json:"healthy_count"`
	DegradingCount      int     `json:"degrading_count"`
	ToxicCount          int     `json:"toxic_count"`
	NeverDeliveredCount int     `json:"never_delivered_count"`
	UniqueNumberCount   int     `json:"unique_number_count"`
	OverallSuccessRate  float64 `json:"overall_success_rate"`

	// Row accounting: RawRows is everything handed in, RejectedRows failed
	// normalization, NonAttemptRows were pre-delivery filters.
	RawRows        int `json:"raw_rows"`
	RejectedRows   int `json:"rejected_rows"`
	NonAttemptRows int `json:"non_attempt_rows"`
	TotalAttempts  int `json:"total_attempts"`

	// MaxTimestamp is the dataset-relative "now" used for recency checks.
	MaxTimestamp time.Time `json:"max_timestamp"`
}

// MessageInfo carries directory metadata for a message id.
type MessageInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Options controls engine thresholds and directories.
type Options struct {
	// MinConsecutiveUnsuccessful is the minimum run length to report.
	// Values below 1 are clamped to 1.
	MinConsecutiveUnsuccessful int

	// MinRunSpanDays is the minimum day span for a run to qualify. A run of
	// longRunLength or more qualifies regardless. Negative values clamp to 0.
	MinRunSpanDays int

	// RecentSuccessWindowDays bounds the trailing window (ending at the
	// dataset's max timestamp) in which a success counts as "recent".
	RecentSuccessWindowDays int

	// AllowShortNumbers accepts any digit string of length 7 or more instead
	// of requiring exactly 10 digits after country-code stripping.
	AllowShortNumbers bool

	// Workers bounds the parallel per-number scoring stage. Values below 1
	// fall back to DefaultWorkers.
	Workers int

	MessageDirectory map[string]MessageInfo
	CallerDirectory  map[string]string
}

// Defaults for Options.
const (
	DefaultMinConsecutiveUnsuccessful = 4
	DefaultMinRunSpanDays             = 30
	DefaultRecentSuccessWindowDays    = 14
	DefaultWorkers                    = 4
)

// DefaultOptions returns the engine defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		MinConsecutiveUnsuccessful: DefaultMinConsecutiveUnsuccessful,
		MinRunSpanDays:             DefaultMinRunSpanDays,
		RecentSuccessWindowDays:    DefaultRecentSuccessWindowDays,
		Workers:                    DefaultWorkers,
	}
}

// clamped returns a copy of o with out-of-range thresholds pulled back to
// safe values. Bad thresholds are a configuration warning, never an error.
func (o Options) clamped() Options {
	if o.MinConsecutiveUnsuccessful < 1 {
		o.MinConsecutiveUnsuccessful = 1
	}
	if o.MinRunSpanDays < 0 {
		o.MinRunSpanDays = 0
	}
	if o.RecentSuccessWindowDays < 1 {
		o.RecentSuccessWindowDays = DefaultRecentSuccessWindowDays
	}
	if o.Workers < 1 {
		o.Workers = DefaultWorkers
	}
	return o
}
