package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

var (
	commaCapRe   = regexp.MustCompile(`,\s*(\p{Lu})`)
	skillSplitRe = regexp.MustCompile(`[\n;•·▪●◦]`)
	bulletRe     = regexp.MustCompile(`^\s*(?:[-–—*•·▪●◦►➢✓]|\d{1,2}[.)])\s*`)
	wsRe         = regexp.MustCompile(`\s+`)
)

// Summary returns the profile section joined into one paragraph. Without a
// profile section it falls back to the first few long, non-heading,
// non-contact lines outside any classified section, capped in length.
func Summary(bs []blocks.Block, ranges map[sections.Key]sections.Range, o Options) string {
	o = o.withDefaults()
	if r, ok := ranges[sections.PersonalProfile]; ok {
		if s := collapse(strings.Join(r.Texts(bs), " ")); s != "" {
			return s
		}
	}
	var picked []string
	for i, b := range bs {
		if len(picked) >= o.SummaryLines {
			break
		}
		t := strings.TrimSpace(b.Text)
		n := utf8.RuneCountInString(t)
		if b.IsHeading || n < o.SummaryMinLen || n > o.SummaryMaxLen || isContactLine(t) || sections.Covered(ranges, i) {
			continue
		}
		picked = append(picked, t)
	}
	return capText(collapse(strings.Join(picked, " ")), o.SummaryCap)
}

func collapse(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// capText shortens s to at most n runes, cutting at a word boundary.
func capText(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)[:n]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;") + "…"
}

// Skills splits skills text into items on newlines, bullets, middots,
// semicolons and commas followed by a capital letter, so "Tool A, and Tool B"
// stays whole. Items are trimmed of bullet prefixes and deduplicated
// case-insensitively, first spelling kept.
func Skills(lines []string) []string {
	text := commaCapRe.ReplaceAllString(strings.Join(lines, "\n"), "\n$1")
	var out []string
	seen := map[string]bool{}
	for _, part := range skillSplitRe.Split(text, -1) {
		s := strings.TrimSpace(bulletRe.ReplaceAllString(part, ""))
		s = strings.TrimRight(s, ",.")
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

// Items turns section lines into list items, one per line or bullet.
func Items(lines []string) []string {
	var out []string
	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			if s := strings.TrimSpace(bulletRe.ReplaceAllString(part, "")); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func isBullet(s string) bool { return bulletRe.MatchString(s) && strings.TrimSpace(bulletRe.ReplaceAllString(s, "")) != "" }

func stripBullet(s string) string { return strings.TrimSpace(bulletRe.ReplaceAllString(s, "")) }
