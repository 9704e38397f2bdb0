package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoAnalyzableData is returned when no row survives normalization with
// both a usable phone number and a parseable timestamp. It is the engine's
// only fatal condition; individual bad rows are dropped silently.
var ErrNoAnalyzableData = errors.New("no analyzable data")

// Analyze runs the full delivery-intelligence pipeline over raw rows and
// returns a fresh Result. It holds no shared state: concurrent calls on
// different inputs are safe, and repeated calls on the same input produce
// identical results.
func Analyze(rows []RawRow, opts Options) (*Result, error) {
	opts = opts.clamped()

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows provided", ErrNoAnalyzableData)
	}

	var attempts, nonAttempts []Attempt
	rejected := 0
	for _, row := range rows {
		a, ok := NormalizeRow(row, opts.AllowShortNumbers)
		if !ok {
			rejected++
			continue
		}
		if a.Category == OtherNonAttempt {
			nonAttempts = append(nonAttempts, a)
		} else {
			attempts = append(attempts, a)
		}
	}

	if len(attempts) == 0 {
		return nil, fmt.Errorf("%w: %d rows provided but none had a usable phone number and timestamp", ErrNoAnalyzableData, len(rows))
	}

	sortAttempts(attempts)
	profiles := buildProfiles(attempts, nonAttempts)

	maxTS := attempts[len(attempts)-1].Timestamp

	numbers, runs, err := scoreNumbers(profiles, maxTS, opts)
	if err != nil {
		return nil, err
	}

	hourly, daily := buildTimeRollups(profiles)

	result := &Result{
		Numbers: numbers,
		Decay:   buildDecayCurve(profiles),
		Runs:    runs,
		AccountStats: buildEntityStats(profiles,
			func(a Attempt) string { return a.AccountID },
			func(id string) string { return id }),
		MessageStats: buildEntityStats(profiles,
			func(a Attempt) string { return a.MessageID },
			messageName(opts.MessageDirectory)),
		CallerStats: buildEntityStats(profiles,
			func(a Attempt) string { return a.CallerNumber },
			callerName(opts.CallerDirectory)),
		HourlyGlobal:   hourly,
		DailyGlobal:    daily,
		RawRows:        len(rows),
		RejectedRows:   rejected,
		NonAttemptRows: len(nonAttempts),
		TotalAttempts:  len(attempts),
		MaxTimestamp:   maxTS,
	}

	summarize(result)
	return result, nil
}

// scoreNumbers runs the per-number stage (health, variability, runs) over
// the frozen profiles. The work is independent per number, so it is spread
// across a bounded worker group; output order is fixed by sorting numbers
// up front and merging runs in that same order.
func scoreNumbers(profiles map[string]*NumberProfile, maxTS time.Time, opts Options) ([]NumberSummary, []ConsecutiveRun, error) {
	phones := sortedPhoneNumbers(profiles)

	summaries := make([]NumberSummary, len(phones))
	perNumberRuns := make([][]ConsecutiveRun, len(phones))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, phone := range phones {
		g.Go(func() error {
			p := profiles[phone]
			s := NumberSummary{
				PhoneNumber:         p.PhoneNumber,
				TotalAttempts:       p.TotalAttempts,
				SuccessCount:        p.SuccessCount,
				UnsuccessfulCount:   p.UnsuccessfulCount,
				SuccessRate:         p.SuccessRate(),
				ConsecutiveFailures: p.ConsecutiveFailures,
				AttemptIndex:        p.AttemptIndex,
				DistinctMessages:    len(p.MessageCounts),
				DistinctCallers:     len(p.CallerCounts),
				VariabilityScore:    VariabilityScore(p),
			}
			if len(p.Attempts) > 0 {
				s.FirstAttempt = p.Attempts[0].Timestamp
				s.LastAttempt = p.Attempts[len(p.Attempts)-1].Timestamp
			}
			if !p.LastSuccess.IsZero() {
				ts := p.LastSuccess
				s.LastSuccess = &ts
			}
			if p.TotalAttempts > 0 {
				recent := hasRecentSuccess(p.LastSuccess, maxTS, opts.RecentSuccessWindowDays)
				s.Health = ClassifyHealth(s.SuccessRate, p.ConsecutiveFailures, p.TotalAttempts, recent)
			}
			summaries[i] = s
			perNumberRuns[i] = DetectRuns(p, opts.MinConsecutiveUnsuccessful, opts.MinRunSpanDays, s.Health)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var runs []ConsecutiveRun
	for _, nr := range perNumberRuns {
		runs = append(runs, nr...)
	}
	return summaries, runs, nil
}

// summarize fills the aggregate counts and the list grade.
func summarize(r *Result) {
	totalSuccess := 0
	for _, n := range r.Numbers {
		totalSuccess += n.SuccessCount
		switch n.Health {
		case Healthy:
			r.HealthyCount++
		case Degrading:
			r.DegradingCount++
		case Toxic:
			r.ToxicCount++
		}
		if n.TotalAttempts > 0 && n.SuccessCount == 0 {
			r.NeverDeliveredCount++
		}
	}

	r.UniqueNumberCount = len(r.Numbers)
	if r.TotalAttempts > 0 {
		r.OverallSuccessRate = float64(totalSuccess) / float64(r.TotalAttempts)
	}

	// Numbers seen only in non-attempt rows carry no health label and stay
	// out of the grade denominator.
	if classified := r.HealthyCount + r.DegradingCount + r.ToxicCount; classified > 0 {
		n := float64(classified)
		r.Grade = GradeList(
			float64(r.HealthyCount)/n*100,
			float64(r.ToxicCount)/n*100,
			float64(r.NeverDeliveredCount)/n*100,
		)
	}

	// Runs come out grouped by number; present the worst first.
	sort.SliceStable(r.Runs, func(i, j int) bool {
		if r.Runs[i].Length != r.Runs[j].Length {
			return r.Runs[i].Length > r.Runs[j].Length
		}
		return r.Runs[i].PhoneNumber < r.Runs[j].PhoneNumber
	})
}

func messageName(dir map[string]MessageInfo) func(string) string {
	return func(id string) string {
		if info, ok := dir[id]; ok && info.Name != "" {
			return info.Name
		}
		return id
	}
}

func callerName(dir map[string]string) func(string) string {
	return func(id string) string {
		if name, ok := dir[id]; ok && name != "" {
			return name
		}
		return id
	}
}
