package fields

import (
	"regexp"
	"strings"
)

var (
	resultRe   = regexp.MustCompile(`(?i)^(?:(?:first|upper second|lower second|2:[12]|2\.[12]|third|distinction|merit|pass)(?:[- ]class)?(?:\s*\(?hons?\)?|\s+honours)?|(?:gpa|grades?)\b.*)$`)
	entrySepRe = regexp.MustCompile(`\s*(?:\t|\s\|\s|\s[-–—]\s|,)\s*`)
)

// ParseEducationLine splits a free-text entry such as
// "BSc Economics, University of Leeds, 2:1, 2015 - 2018" into its parts.
// The dates are the date range, or failing that the last year-bearing part;
// the first remaining part is the degree and the rest the institution, with
// a recognizable grade moved to Result.
func ParseEducationLine(line string) Education {
	line = strings.TrimSpace(line)
	if line == "" {
		return Education{}
	}
	var e Education
	rest := line
	if loc := DateRangeRe.FindStringIndex(rest); loc != nil {
		e.Dates = strings.TrimSpace(rest[loc[0]:loc[1]])
		rest = rest[:loc[0]] + " , " + rest[loc[1]:]
	}

	var parts []string
	for _, p := range entrySepRe.Split(rest, -1) {
		p = strings.Trim(p, " ()")
		if p != "" {
			parts = append(parts, p)
		}
	}
	if e.Dates == "" {
		for i := len(parts) - 1; i >= 0; i-- {
			loc := DateHintRe.FindStringIndex(parts[i])
			if loc == nil {
				continue
			}
			e.Dates = parts[i][loc[0]:loc[1]]
			remainder := strings.Trim(parts[i][:loc[0]]+parts[i][loc[1]:], " ()")
			if remainder != "" {
				parts[i] = remainder
			} else {
				parts = append(parts[:i], parts[i+1:]...)
			}
			break
		}
	}

	var kept []string
	for _, p := range parts {
		if e.Result == "" && resultRe.MatchString(p) {
			e.Result = p
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) > 0 {
		e.Degree = kept[0]
		e.Institution = strings.Join(kept[1:], ", ")
	}
	return e
}
