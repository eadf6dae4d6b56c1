package blocks

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"
)

// pdfLine is one baseline of text on a page.
type pdfLine struct {
	y    float64
	text strings.Builder
	size float64
	endX float64
}

// FromPDF reads the text layer of a PDF and returns one block per printed
// line. Lines set noticeably larger than the body text count as styled
// headings, the PDF stand-in for a heading style.
func FromPDF(path string) (blocks []Block, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			blocks, err = nil, fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()
	doc, err := rpdf.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}

	var lines []*pdfLine
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, pageLines(page.Content().Text)...)
	}
	return pdfBlocks(lines), nil
}

// pageLines groups text runs sharing a baseline, top of page first.
func pageLines(texts []rpdf.Text) []*pdfLine {
	var lines []*pdfLine
	var cur *pdfLine
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		tol := math.Max(t.FontSize/2, 1)
		if cur == nil || math.Abs(cur.y-t.Y) > tol {
			cur = findLine(lines, t.Y, tol)
			if cur == nil {
				cur = &pdfLine{y: t.Y, endX: t.X}
				lines = append(lines, cur)
			}
		}
		if cur.text.Len() > 0 && t.X-cur.endX > t.FontSize*0.2 {
			cur.text.WriteByte(' ')
		}
		cur.text.WriteString(t.S)
		cur.endX = t.X + t.W
		if t.FontSize > cur.size {
			cur.size = t.FontSize
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	return lines
}

func findLine(lines []*pdfLine, y, tol float64) *pdfLine {
	for _, l := range lines {
		if math.Abs(l.y-y) <= tol {
			return l
		}
	}
	return nil
}

func pdfBlocks(lines []*pdfLine) []Block {
	body := medianSize(lines)
	cands := make([]candidate, 0, len(lines))
	for _, l := range lines {
		text := strings.Join(strings.Fields(l.text.String()), " ")
		cands = append(cands, candidate{
			text:   text,
			styled: body > 0 && l.size >= body*1.2,
			source: SourceBody,
		})
	}
	return decide(cands)
}

func medianSize(lines []*pdfLine) float64 {
	if len(lines) == 0 {
		return 0
	}
	sizes := make([]float64, 0, len(lines))
	for _, l := range lines {
		sizes = append(sizes, l.size)
	}
	sort.Float64s(sizes)
	return sizes[len(sizes)/2]
}
