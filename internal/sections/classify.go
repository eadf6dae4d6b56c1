package sections

import (
	"github.com/thywilljoshua/cv-reformat/internal/blocks"
)

// Range is the half-open block interval [Start, End) holding the content of
// one recognized section. Heading is the index of its heading block.
type Range struct {
	Key     Key
	Heading int
	Start   int
	End     int
}

// Len returns the number of content blocks.
func (r Range) Len() int { return r.End - r.Start }

// Texts returns the non-empty block texts of the range.
func (r Range) Texts(bs []blocks.Block) []string {
	var out []string
	for i := r.Start; i < r.End && i < len(bs); i++ {
		if bs[i].Text != "" {
			out = append(out, bs[i].Text)
		}
	}
	return out
}

// ClassifyAll returns a range for every recognized heading in block order.
// Any heading, recognized or not, ends the range before it.
func ClassifyAll(bs []blocks.Block, v *Vocabulary) []Range {
	var out []Range
	open := -1
	for i, b := range bs {
		if !b.IsHeading {
			continue
		}
		if open >= 0 {
			out[open].End = i
			open = -1
		}
		if k, ok := v.Resolve(b.Text); ok {
			out = append(out, Range{Key: k, Heading: i, Start: i + 1, End: len(bs)})
			open = len(out) - 1
		}
	}
	return out
}

// Classify returns the range of each recognized section. When a key occurs
// more than once the first occurrence wins.
func Classify(bs []blocks.Block, v *Vocabulary) map[Key]Range {
	out := make(map[Key]Range)
	for _, r := range ClassifyAll(bs, v) {
		if _, ok := out[r.Key]; !ok {
			out[r.Key] = r
		}
	}
	return out
}

// Covered reports whether block index i falls inside any range, heading
// included.
func Covered(ranges map[Key]Range, i int) bool {
	for _, r := range ranges {
		if i >= r.Heading && i < r.End {
			return true
		}
	}
	return false
}
