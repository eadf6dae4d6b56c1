package extract

import (
	"regexp"
	"strings"

	"github.com/thywilljoshua/cv-reformat/internal/blocks"
	"github.com/thywilljoshua/cv-reformat/internal/fields"
	"github.com/thywilljoshua/cv-reformat/internal/sections"
)

var (
	roleKeywordRe = regexp.MustCompile(`(?i)\b(?:analyst|manager|engineer|consultant|specialist|developer|accountant|designer|director|officer|associate|lead|head|chief|ceo|coo|cfo|cto|administrator|assistant|coordinator|co-ordinator|supervisor|executive|intern|architect|scientist|partner|controller|adviser|advisor|president|vp|founder|technician|teacher|nurse|programmer|auditor|buyer|planner)\b`)
	headerTrim    = " \t,;|-–—"
)

// chunk is the lines of one role: a header and its body.
type chunk struct {
	header string
	body   []string
}

// Experience splits employment text into roles. A line holding a date range
// starts a new role; a line that is only a date range pulls the preceding
// title line into the new role's header.
func Experience(lines []string) []fields.Role {
	var chunks []*chunk
	var cur *chunk
	for _, line := range expand(lines) {
		t := strings.TrimSpace(line)
		if fields.DateRangeRe.MatchString(t) && !isBullet(t) {
			if bareDates(t) && cur != nil && len(cur.body) == 0 && !fields.DateRangeRe.MatchString(cur.header) {
				cur.header += "\t" + t
				continue
			}
			next := &chunk{header: t}
			if bareDates(t) && cur != nil && len(cur.body) > 0 {
				if last := cur.body[len(cur.body)-1]; last != "" && !isBullet(last) {
					cur.body = cur.body[:len(cur.body)-1]
					next.header = last + "\t" + t
				}
			}
			cur = next
			chunks = append(chunks, cur)
			continue
		}
		if cur == nil {
			if t == "" {
				continue
			}
			cur = &chunk{header: t}
			chunks = append(chunks, cur)
			continue
		}
		cur.body = append(cur.body, t)
	}

	var out []fields.Role
	for _, c := range chunks {
		if r := parseRole(c); !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}

// expand splits multi-line block texts into single lines.
func expand(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, strings.Split(strings.ReplaceAll(l, "\r\n", "\n"), "\n")...)
	}
	return out
}

func bareDates(s string) bool {
	return strings.Trim(fields.DateRangeRe.ReplaceAllString(s, ""), headerTrim) == ""
}

func parseRole(c *chunk) fields.Role {
	var r fields.Role
	header := c.header
	if loc := fields.DateRangeRe.FindStringIndex(header); loc != nil {
		r.Dates = header[loc[0]:loc[1]]
		header = header[:loc[0]] + "\t" + header[loc[1]:]
	}
	r.Title, r.Company, r.Location = splitHeader(strings.Trim(header, headerTrim))
	r.Blurb, r.Bullets = splitBody(c.body)
	return r
}

// splitHeader divides "Title, Company, Location" style headers. Whichever
// side carries a job-title keyword is the title.
func splitHeader(h string) (title, company, location string) {
	if h == "" {
		return "", "", ""
	}
	var parts []string
	sep := ""
	for _, s := range []string{"\t", " | ", " – ", " — ", " - ", " at ", ","} {
		if strings.Contains(h, s) {
			for _, p := range strings.Split(h, s) {
				if p = strings.Trim(p, headerTrim); p != "" {
					parts = append(parts, p)
				}
			}
			if len(parts) >= 2 {
				sep = s
				break
			}
			parts = nil
		}
	}
	if len(parts) < 2 {
		if roleKeywordRe.MatchString(h) {
			return h, "", ""
		}
		return "", h, ""
	}
	if sep == "\t" {
		var flat []string
		for _, p := range parts {
			for _, q := range strings.Split(p, ",") {
				if q = strings.TrimSpace(q); q != "" {
					flat = append(flat, q)
				}
			}
		}
		parts = flat
	}
	a, b := parts[0], parts[1]
	if len(parts) >= 3 {
		location = strings.Join(parts[2:], ", ")
	}
	if roleKeywordRe.MatchString(b) && !roleKeywordRe.MatchString(a) {
		return b, a, location
	}
	return a, b, location
}

// splitBody separates an optional company blurb from the bullet points.
// Bullet markers and blank lines start new bullets; wrapped lines fold into
// the current one and a hyphen at a line break is removed. Bullets are then
// split on semicolons.
func splitBody(body []string) (string, []string) {
	var blurb string
	start := 0
	for start < len(body) && body[start] == "" {
		start++
	}
	if start < len(body) && !isBullet(body[start]) {
		for j := start + 1; j < len(body); j++ {
			if body[j] == "" {
				continue
			}
			if isBullet(body[j]) {
				blurb = body[start]
				start++
			}
			break
		}
	}

	var raw []string
	open := false
	for _, line := range body[start:] {
		switch {
		case line == "":
			open = false
		case isBullet(line):
			raw = append(raw, stripBullet(line))
			open = true
		case open && len(raw) > 0:
			last := raw[len(raw)-1]
			if strings.HasSuffix(last, "-") && !strings.HasSuffix(last, " -") {
				raw[len(raw)-1] = strings.TrimSuffix(last, "-") + line
			} else {
				raw[len(raw)-1] = last + " " + line
			}
		default:
			raw = append(raw, line)
			open = true
		}
	}

	var bullets []string
	for _, b := range raw {
		for _, part := range strings.Split(b, ";") {
			if s := collapse(part); s != "" {
				bullets = append(bullets, s)
			}
		}
	}
	return blurb, bullets
}

// FallbackExperience scans the whole document for date-range lines outside
// education sections and takes up to FallbackBodyLines following lines as
// each role's body.
func FallbackExperience(bs []blocks.Block, ranges map[sections.Key]sections.Range, o Options) []fields.Role {
	o = o.withDefaults()
	excluded := map[sections.Key]sections.Range{}
	for _, k := range []sections.Key{sections.Education, sections.Qualifications} {
		if r, ok := ranges[k]; ok {
			excluded[k] = r
		}
	}
	var out []fields.Role
	for i := 0; i < len(bs); i++ {
		t := strings.TrimSpace(bs[i].Text)
		if !fields.DateRangeRe.MatchString(t) || sections.Covered(excluded, i) {
			continue
		}
		c := &chunk{header: t}
		j := i + 1
		for ; j < len(bs) && len(c.body) < o.FallbackBodyLines; j++ {
			next := strings.TrimSpace(bs[j].Text)
			if bs[j].IsHeading || fields.DateRangeRe.MatchString(next) || sections.Covered(excluded, j) {
				break
			}
			c.body = append(c.body, expand([]string{next})...)
		}
		if r := parseRole(c); !r.Empty() {
			out = append(out, r)
		}
		i = j - 1
	}
	return out
}
