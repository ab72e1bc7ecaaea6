package trmnl

import (
	"regexp"
	"strconv"
	"time"
)

// powerChangeThreshold is the margin in watts below which positional power
// differences are not considered significant.
const powerChangeThreshold = 100

var (
	powerTokens   = regexp.MustCompile(`(\d+)W`)
	statusTokens  = regexp.MustCompile(`(CONNECTED|CHARGING|IDLE|ERROR)`)
	vehicleTokens = regexp.MustCompile(`Vehicle: ([^<]+)`)
)

// ShouldSend decides whether a rendered document is worth transmitting.
// The minimum interval gate takes priority over content comparison. Once
// the interval has elapsed the rendered document is compared against the
// last transmitted one on three signals extracted from the markup: power
// tokens, status tokens and vehicle names. Force bypasses both the rate
// limit and the comparison.
//
// Deriving signals from rendered markup instead of the pre-render values is
// kept for compatibility with the displayed document; it assumes the
// template keeps power figures directly adjacent to their W suffix.
func ShouldSend(now time.Time, rendered string, session *Session, minInterval time.Duration, force bool) bool {
	if force {
		return true
	}

	if now.Sub(session.LastSentAt()) < minInterval {
		return false
	}

	last := session.LastSentContent()
	if last == "" {
		return true
	}

	return significantChange(last, rendered)
}

func significantChange(old, new string) bool {
	if powerChanged(old, new) {
		return true
	}

	if !equalMatches(statusTokens.FindAllString(old, -1), statusTokens.FindAllString(new, -1)) {
		return true
	}

	oldVehicles := vehicleTokens.FindAllStringSubmatch(old, -1)
	newVehicles := vehicleTokens.FindAllStringSubmatch(new, -1)

	return !equalSubmatches(oldVehicles, newVehicles)
}

// powerChanged compares power tokens positionally. Sequences of different
// length always count as a change; equal-length sequences only when at
// least one pair differs by more than the threshold.
func powerChanged(old, new string) bool {
	oldPowers := powerTokens.FindAllStringSubmatch(old, -1)
	newPowers := powerTokens.FindAllStringSubmatch(new, -1)

	if len(oldPowers) != len(newPowers) {
		return true
	}

	for i := range oldPowers {
		oldValue, err := strconv.Atoi(oldPowers[i][1])
		if err != nil {
			return true
		}

		newValue, err := strconv.Atoi(newPowers[i][1])
		if err != nil {
			return true
		}

		diff := oldValue - newValue
		if diff < 0 {
			diff = -diff
		}

		if diff > powerChangeThreshold {
			return true
		}
	}

	return false
}

func equalMatches(old, new []string) bool {
	if len(old) != len(new) {
		return false
	}

	for i := range old {
		if old[i] != new[i] {
			return false
		}
	}

	return true
}

func equalSubmatches(old, new [][]string) bool {
	if len(old) != len(new) {
		return false
	}

	for i := range old {
		if old[i][1] != new[i][1] {
			return false
		}
	}

	return true
}
