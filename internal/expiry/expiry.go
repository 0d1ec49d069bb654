package expiry

import "time"

// NearExpiryDays is the inclusive window, in days, before the expiry instant
// during which a product counts as near expiry.
const NearExpiryDays = 30

const day = 24 * time.Hour

type Status struct {
	NearExpiry bool
	Expired    bool
}

// Evaluate maps an optional expiry date to its flags at now. The distance is
// measured in fractional days; nothing is rounded.
func Evaluate(expiry *time.Time, now time.Time) Status {
	if expiry == nil {
		return Status{}
	}
	days := float64(expiry.Sub(now)) / float64(day)
	return Status{
		NearExpiry: days >= 0 && days <= NearExpiryDays,
		Expired:    days < 0,
	}
}
