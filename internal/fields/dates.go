package fields

import (
	"regexp"
	"sort"
	"strconv"
)

const (
	monthPattern = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`
	datePattern  = `(?:` + monthPattern + `\s+|\d{1,2}/)?\d{4}`
	openPattern  = `(?:present|current|now|date|ongoing)`
)

var (
	yearRe    = regexp.MustCompile(`\d{4}`)
	ongoingRe = regexp.MustCompile(`(?i)\b` + openPattern + `\b`)
	// DateRangeRe matches "Jan 2019 - Mar 2021", "2016 – Present", "05/2018 to 2020".
	DateRangeRe = regexp.MustCompile(`(?i)\b` + datePattern + `\s*(?:-|–|—|to)\s*(?:` + openPattern + `\b|` + datePattern + `)`)
	// DateHintRe matches a lone year or month-year.
	DateHintRe = regexp.MustCompile(`(?i)\b` + datePattern + `\b`)
)

// Year returns the last four-digit run in dates.
func Year(dates string) (int, bool) {
	all := yearRe.FindAllString(dates, -1)
	if len(all) == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(all[len(all)-1])
	if err != nil {
		return 0, false
	}
	return y, true
}

// Ongoing reports whether dates describe an open range such as "2019 - Present".
func Ongoing(dates string) bool {
	return ongoingRe.MatchString(dates) && yearRe.MatchString(dates)
}

// recency ranks dates for most-recent-first ordering. Open ranges outrank
// every closed one.
func recency(dates string) (int, bool) {
	if Ongoing(dates) {
		return 1 << 30, true
	}
	return Year(dates)
}

func lessRecent(a, b string) bool {
	ra, oka := recency(a)
	rb, okb := recency(b)
	switch {
	case oka && okb:
		return ra > rb
	case oka:
		return true
	default:
		return false
	}
}

// SortEducation orders entries most recent first. Entries without a year
// keep their relative order after the dated ones.
func SortEducation(es []Education) {
	sort.SliceStable(es, func(i, j int) bool { return lessRecent(es[i].Dates, es[j].Dates) })
}

// SortRoles orders roles most recent first, ongoing roles on top.
func SortRoles(rs []Role) {
	sort.SliceStable(rs, func(i, j int) bool { return lessRecent(rs[i].Dates, rs[j].Dates) })
}
