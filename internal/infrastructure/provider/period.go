package provider

import "time"

// periodStart maps a caller-facing period token to the start of the wanted
// historical range. Unknown tokens default to one month.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "1w":
		return now.AddDate(0, 0, -7)
	case "1m", "":
		return now.AddDate(0, -1, 0)
	case "3m":
		return now.AddDate(0, -3, 0)
	case "6m":
		return now.AddDate(0, -6, 0)
	case "1y":
		return now.AddDate(-1, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}
