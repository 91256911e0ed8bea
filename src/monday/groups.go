package monday

import "time"

// monthAbbrev is the fixed month table used for group names. Labels are the
// Spanish abbreviations the accounting team uses on the board; they are not
// locale dependent and must never change, or existing groups stop matching.
var monthAbbrev = map[time.Month]string{
	time.January:   "ENE",
	time.February:  "FEB",
	time.March:     "MAR",
	time.April:     "ABR",
	time.May:       "MAY",
	time.June:      "JUN",
	time.July:      "JUL",
	time.August:    "AGO",
	time.September: "SEP",
	time.October:   "OCT",
	time.November:  "NOV",
	time.December:  "DIC",
}

// GroupLabelFor derives the board group name for a document date,
// e.g. 2024-08-15 -> "AGO-2024".
func GroupLabelFor(date time.Time) string {
	return monthAbbrev[date.Month()] + "-" + date.Format("2006")
}
