package ocr

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const clock = `(?:\s*(?:t|@|at)?\s*(?P<h>\d{1,2}):(?P<mi>\d{2})(?::\d{2})?(?:\s*(?P<ap>[ap])\.?m\b\.?)?)?`

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?P<y>\d{4})-(?P<mo>\d{1,2})-(?P<d>\d{1,2})` + clock),
	regexp.MustCompile(`(?i)\b(?P<mo>\d{1,2})/(?P<d>\d{1,2})/(?P<y>\d{4}|\d{2})\b` + clock),
	regexp.MustCompile(`(?i)\b(?P<mon>jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(?P<d>\d{1,2})(?:st|nd|rd|th)?,?\s+(?P<y>\d{4})\b` + clock),
}

// endClock is a bare time closing a same-day range: "08:00 - 12:00".
var endClock = regexp.MustCompile(`(?i)^\s*(?:-|–|to|until|thru|through)\s*(\d{1,2}):(\d{2})(?:\s*([ap])\.?m\b\.?)?`)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

type dateMatch struct {
	start, end int
	at         time.Time
}

// findDates returns every valid date in s, left to right. All times are UTC.
func findDates(s string) []dateMatch {
	var found []dateMatch
	for _, re := range datePatterns {
		for _, idx := range re.FindAllStringSubmatchIndex(s, -1) {
			if at, ok := buildDate(re, s, idx); ok {
				found = append(found, dateMatch{start: idx[0], end: idx[1], at: at})
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	out := found[:0]
	lastEnd := -1
	for _, m := range found {
		if m.start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.end
	}
	return out
}

func buildDate(re *regexp.Regexp, s string, idx []int) (time.Time, bool) {
	group := func(name string) string {
		i := re.SubexpIndex(name)
		if i < 0 || idx[2*i] < 0 {
			return ""
		}
		return s[idx[2*i]:idx[2*i+1]]
	}

	year, err := strconv.Atoi(group("y"))
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}

	var month time.Month
	if mon := group("mon"); mon != "" {
		month = months[strings.ToLower(mon[:3])]
	} else {
		n, err := strconv.Atoi(group("mo"))
		if err != nil {
			return time.Time{}, false
		}
		month = time.Month(n)
	}
	day, err := strconv.Atoi(group("d"))
	if err != nil {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if h := group("h"); h != "" {
		var ok bool
		hour, minute, ok = clockValue(h, group("mi"), group("ap"))
		if !ok {
			return time.Time{}, false
		}
	}

	return validDate(year, month, day, hour, minute)
}

func clockValue(h, mi, ap string) (int, int, bool) {
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(mi)
	if err != nil || minute > 59 {
		return 0, 0, false
	}
	switch strings.ToLower(ap) {
	case "":
		if hour > 23 {
			return 0, 0, false
		}
	case "a", "p":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		hour %= 12
		if strings.EqualFold(ap, "p") {
			hour += 12
		}
	}
	return hour, minute, true
}

func validDate(year int, month time.Month, day, hour, minute int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func isRangeSeparator(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "-", "–", "to", "until", "thru", "through":
		return true
	}
	return false
}

// windowFrom reads one labelled value. One date is a start (optionally closed by
// a bare end time), two dates joined by a range separator are start and end.
// Anything else cannot be read as a window.
func windowFrom(value string) (Window, bool) {
	dates := findDates(value)
	switch len(dates) {
	case 1:
		start := dates[0].at
		w := Window{Start: &start}
		if m := endClock.FindStringSubmatch(value[dates[0].end:]); m != nil {
			if hour, minute, ok := clockValue(m[1], m[2], m[3]); ok {
				end := time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, time.UTC)
				if !end.Before(start) {
					w.End = &end
				}
			}
		}
		return w, true
	case 2:
		if !isRangeSeparator(value[dates[0].end:dates[1].start]) {
			return Window{}, false
		}
		start, end := dates[0].at, dates[1].at
		w := Window{Start: &start}
		if !end.Before(start) {
			w.End = &end
		}
		return w, true
	}
	return Window{}, false
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
