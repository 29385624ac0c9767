package dashboard

import "time"

// SessionLabel names the trading session active at the given instant.
// The overlap window wins over both plain sessions.
func SessionLabel(now time.Time) string {
	h := now.UTC().Hour()
	switch {
	case h >= 13 && h < 16:
		return "London + New York overlap"
	case h >= 8 && h < 16:
		return "European session"
	case h >= 13 && h < 21:
		return "American session"
	default:
		return "Asian session"
	}
}
