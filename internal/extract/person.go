package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\(?\d[\d\-() \t.]{7,}\d`)
	urlRe      = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+|\blinkedin\.com/\S+`)
	digitRe    = regexp.MustCompile(`\d`)
	nameWordRe = regexp.MustCompile(`^(?:\p{Lu}\p{L}*(?:[-'’]\p{Lu}?\p{L}+)*\.?|\p{Lu}\.)$`)
	namePrefix = regexp.MustCompile(`(?i)^(?:curriculum\s+vitae|résumé|resume|cv)(?:\s+(?:for|of)\s+|\s*[-–—:|]\s*|\s+)`)
	locLabelRe = regexp.MustCompile(`(?i)candidate\s+location\s*:\s*(.+)`)
	postcodeRe = regexp.MustCompile(`\b[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}\b`)
	placeRe    = regexp.MustCompile(`^(?:\p{Lu}[\p{L}'’.\-]*|\p{Lu}{2,4})$`)
	locSepRe   = regexp.MustCompile(`[|•·;/@:]`)
)

// ContactInfo is the first email, phone number and URL found in a CV.
type ContactInfo struct {
	Email string
	Phone string
	URL   string
}

var genericTitles = map[string]bool{
	"CURRICULUM VITAE": true, "CV": true, "RESUME": true, "RÉSUMÉ": true,
	"PERSONAL DETAILS": true, "CONTACT DETAILS": true, "CONTACT": true, "REFERENCES": true,
}

var nonLocationWords = map[string]bool{
	"project": true, "projects": true, "summary": true, "profile": true, "skills": true,
	"experience": true, "education": true, "history": true, "employment": true,
	"manager": true, "engineer": true, "analyst": true, "director": true, "consultant": true,
	"developer": true, "officer": true, "head": true, "lead": true, "ltd": true, "limited": true,
	"plc": true, "inc": true, "university": true, "college": true, "school": true,
	"curriculum": true, "vitae": true, "resume": true, "references": true, "contact": true,
	"details": true, "personal": true, "key": true, "available": true, "request": true,
}

// Contact scans the whole text for an email, phone number and URL; the first
// match of each wins. A phone number needs at least nine digits.
func Contact(bs []blocks.Block) ContactInfo {
	var c ContactInfo
	for _, b := range bs {
		if c.Email == "" {
			c.Email = emailRe.FindString(b.Text)
		}
		if c.Phone == "" {
			for _, m := range phoneRe.FindAllString(b.Text, -1) {
				if len(digitRe.FindAllString(m, -1)) >= 9 {
					c.Phone = strings.TrimSpace(m)
					break
				}
			}
		}
		if c.URL == "" {
			c.URL = strings.TrimRight(urlRe.FindString(b.Text), ".,;)")
		}
	}
	return c
}

func isContactLine(s string) bool {
	if emailRe.MatchString(s) || urlRe.MatchString(s) {
		return true
	}
	for _, m := range phoneRe.FindAllString(s, -1) {
		if len(digitRe.FindAllString(m, -1)) >= 9 {
			return true
		}
	}
	return false
}

// stripNamePrefix removes a "Curriculum Vitae for" style lead-in.
func stripNamePrefix(s string) string {
	if loc := namePrefix.FindStringIndex(s); loc != nil && loc[1] < len(s) {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

func isNameLine(s string) bool {
	if utf8.RuneCountInString(s) > 60 {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if !nameWordRe.MatchString(w) {
			return false
		}
	}
	return true
}

// Name returns the candidate name and the index of its block, or "" and -1.
// Generic document titles and known section headings never count as names.
func Name(bs []blocks.Block, v *sections.Vocabulary, o Options) (string, int) {
	o = o.withDefaults()
	limit := min(o.NameWindow, len(bs))
	for i := 0; i < limit; i++ {
		t := stripNamePrefix(strings.TrimSpace(bs[i].Text))
		if t == "" || genericTitles[sections.Normalize(t)] || isContactLine(t) {
			continue
		}
		if _, ok := v.Resolve(t); ok {
			continue
		}
		if isNameLine(t) {
			return t, i
		}
	}
	for i := 0; i < limit; i++ {
		b := bs[i]
		t := strings.TrimSpace(b.Text)
		n := len(strings.Fields(t))
		if b.IsHeading || t == "" || n < 2 || n > 6 || utf8.RuneCountInString(t) > 60 || isContactLine(t) {
			continue
		}
		if _, ok := v.Resolve(t); ok {
			continue
		}
		return t, i
	}
	return "", -1
}

// Location finds where the candidate is based. An explicit
// "CANDIDATE LOCATION:" label wins; then a place-like line shortly after the
// name; then a postcode or comma-separated address line, reduced to its last
// part.
func Location(bs []blocks.Block, nameIdx int, v *sections.Vocabulary, o Options) string {
	o = o.withDefaults()
	for _, b := range bs {
		if m := locLabelRe.FindStringSubmatch(b.Text); m != nil {
			if loc := strings.TrimSpace(m[1]); loc != "" && !strings.EqualFold(loc, "n/a") {
				return loc
			}
		}
	}

	start := nameIdx + 1
	for i := start; i < len(bs) && i < start+o.LocationWindow; i++ {
		t := strings.TrimSpace(bs[i].Text)
		if _, heading := v.Resolve(t); heading {
			continue
		}
		if looksLikePlace(t, o) {
			return t
		}
	}

	limit := min(o.LocationFallbackWindow, len(bs))
	for i := 0; i < limit; i++ {
		t := strings.TrimSpace(bs[i].Text)
		if t == "" || i == nameIdx || emailRe.MatchString(t) || urlRe.MatchString(t) {
			continue
		}
		if postcodeRe.MatchString(t) {
			if last := lastCommaPart(postcodeRe.ReplaceAllString(t, "")); last != "" {
				return last
			}
		}
		if strings.Contains(t, ",") && utf8.RuneCountInString(t) <= 80 {
			if last := lastCommaPart(t); looksLikePlace(last, o) {
				return last
			}
		}
	}
	return ""
}

func looksLikePlace(t string, o Options) bool {
	if t == "" || utf8.RuneCountInString(t) > o.LocationMaxLen || digitRe.MatchString(t) || locSepRe.MatchString(t) {
		return false
	}
	// A job title under the name reads like a place name token by token.
	if roleKeywordRe.MatchString(t) {
		return false
	}
	tokens := strings.FieldsFunc(t, func(r rune) bool { return r == ' ' || r == ',' })
	if len(tokens) == 0 {
		return false
	}
	places := 0
	for _, tok := range tokens {
		if nonLocationWords[strings.ToLower(strings.Trim(tok, ".'’"))] {
			return false
		}
		if placeRe.MatchString(tok) {
			places++
		}
	}
	return float64(places)/float64(len(tokens)) >= o.PlaceRatio
}

func lastCommaPart(s string) string {
	parts := strings.Split(s, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}
