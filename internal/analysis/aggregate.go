package analysis

import "sort"

// unknownEntity is the sentinel bucket for rows missing an identifier.
const unknownEntity = "Unknown"

// buildProfiles runs the single-pass fold over canonical attempts, building
// one NumberProfile per distinct phone number.
//
// Delivery attempts MUST already be sorted ascending by timestamp: the
// reset-on-success semantics of AttemptIndex and ConsecutiveFailures depend
// on processing order, so the global sort is an explicit precondition here,
// not an incidental property of the input.
func buildProfiles(attempts []Attempt, nonAttempts []Attempt) map[string]*NumberProfile {
	profiles := make(map[string]*NumberProfile)

	get := func(phone string) *NumberProfile {
		p, ok := profiles[phone]
		if !ok {
			p = &NumberProfile{
				PhoneNumber:   phone,
				MessageCounts: make(map[string]int),
				CallerCounts:  make(map[string]int),
				AccountCounts: make(map[string]int),
			}
			profiles[phone] = p
		}
		return p
	}

	for i := range attempts {
		a := &attempts[i]
		p := get(a.PhoneNumber)

		p.TotalAttempts++
		p.AttemptIndex++
		a.AttemptIndex = p.AttemptIndex

		countEntity(p, *a)
		p.HourCounts[a.HourOfDay]++
		p.DayOfWeekCounts[a.DayOfWeek]++

		if p.sawAttempt && a.MessageID == p.lastMessageID {
			p.BackToBackIdenticalCount++
		}
		p.lastMessageID = a.MessageID
		p.sawAttempt = true

		if a.Category == Success {
			p.SuccessCount++
			p.ConsecutiveFailures = 0
			p.AttemptIndex = 0
			p.LastSuccess = a.Timestamp
		} else {
			p.UnsuccessfulCount++
			p.ConsecutiveFailures++
		}

		p.Attempts = append(p.Attempts, *a)
	}

	// Non-attempt rows only feed the entity-usage maps.
	for _, a := range nonAttempts {
		countEntity(get(a.PhoneNumber), a)
	}

	return profiles
}

func countEntity(p *NumberProfile, a Attempt) {
	p.MessageCounts[orUnknown(a.MessageID)]++
	p.CallerCounts[orUnknown(a.CallerNumber)]++
	p.AccountCounts[orUnknown(a.AccountID)]++
}

func orUnknown(id string) string {
	if id == "" {
		return unknownEntity
	}
	return id
}

// sortAttempts orders delivery attempts by timestamp ascending. The sort is
// stable so rows sharing a timestamp keep their input order, which keeps
// repeated runs over the same export bit-identical.
func sortAttempts(attempts []Attempt) {
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Timestamp.Before(attempts[j].Timestamp)
	})
}

// sortedPhoneNumbers returns the profile keys in ascending order for
// deterministic iteration.
func sortedPhoneNumbers(profiles map[string]*NumberProfile) []string {
	phones := make([]string, 0, len(profiles))
	for phone := range profiles {
		phones = append(phones, phone)
	}
	sort.Strings(phones)
	return phones
}
