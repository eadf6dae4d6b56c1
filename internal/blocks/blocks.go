// Package blocks linearizes a CV document into an ordered list of text blocks.
package blocks

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thywilljoshua/cv-reformat/internal/docx"
)

// Source says where in the document tree a block came from.
type Source string

const (
	SourceBody      Source = "body"
	SourceTableCell Source = "table-cell"
	SourceTextBox   Source = "text-box"
)

// Block is one paragraph-sized unit of document text.
type Block struct {
	Text      string `json:"text" yaml:"text"`
	IsHeading bool   `json:"is_heading" yaml:"is_heading"`
	Source    Source `json:"source" yaml:"source"`
}

// candidate is a block before the document-wide heading decision is made.
type candidate struct {
	text   string
	styled bool
	list   bool
	source Source
}

// Walk returns the blocks of doc in reading order. Table cells are visited
// row by row, descending into nested tables; text boxes follow the paragraph
// that anchors them. Walk never modifies doc.
func Walk(doc *docx.Document) []Block {
	var cands []candidate
	walkContainer(doc.Body(), SourceBody, &cands)
	return decide(cands)
}

func walkContainer(c *docx.Container, src Source, out *[]candidate) {
	for _, el := range c.Elements() {
		switch {
		case el.Paragraph != nil:
			p := el.Paragraph
			*out = append(*out, candidate{
				text:   strings.TrimSpace(p.Text()),
				styled: styleMarksHeading(p.StyleName()),
				list:   p.IsList(),
				source: src,
			})
			for _, box := range p.TextBoxes() {
				walkContainer(box, SourceTextBox, out)
			}
		case el.Table != nil:
			for _, row := range el.Table.Rows() {
				for _, cell := range row.Cells() {
					walkContainer(cell.Container(), SourceTableCell, out)
				}
			}
		default:
			if content := c.SDTContent(el.Node); content != nil {
				walkContainer(content, src, out)
			}
		}
	}
}

func styleMarksHeading(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "heading") || strings.Contains(name, "title")
}

// decide settles IsHeading for every block. Heading styles are trusted when
// the document uses them at all; otherwise the text heuristic applies to
// non-list paragraphs.
func decide(cands []candidate) []Block {
	reliable := false
	for _, c := range cands {
		if c.styled && c.text != "" {
			reliable = true
			break
		}
	}
	out := make([]Block, 0, len(cands))
	for _, c := range cands {
		heading := c.styled && c.text != ""
		if !reliable && !c.list {
			heading = LooksLikeHeading(c.text)
		}
		out = append(out, Block{Text: c.text, IsHeading: heading, Source: c.source})
	}
	return out
}

const listMarkers = "-–—*•·▪●◦►➢✓"

var shortWordsRe = regexp.MustCompile(`^[\p{L}\s&'’.,:;()/\-–]+$`)

// LooksLikeHeading is the fallback heading test for text without style
// information: all upper-case and at most 60 characters, a trailing colon
// within 80 characters, or at most four words made only of letters and
// punctuation. Lines opening with a list marker are never headings.
func LooksLikeHeading(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || strings.ContainsRune(listMarkers, []rune(t)[0]) {
		return false
	}
	n := utf8.RuneCountInString(t)
	if n <= 60 && hasLetter(t) && strings.ToUpper(t) == t {
		return true
	}
	if n <= 80 && strings.HasSuffix(t, ":") {
		return true
	}
	return len(strings.Fields(t)) <= 4 && shortWordsRe.MatchString(t)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// FromText splits plain text into one block per line. Headings are decided
// by LooksLikeHeading alone.
func FromText(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var cands []candidate
	for _, line := range strings.Split(text, "\n") {
		cands = append(cands, candidate{text: strings.TrimSpace(line), source: SourceBody})
	}
	return decide(cands)
}

// Load reads the CV at path and walks it. The format is chosen by file
// extension: .docx, .pdf, or plain text for .txt and .md.
func Load(path string) ([]Block, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		doc, err := docx.Open(path)
		if err != nil {
			return nil, err
		}
		return Walk(doc), nil
	case ".pdf":
		return FromPDF(path)
	case ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return FromText(string(data)), nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

// Texts returns the text of every block.
func Texts(bs []Block) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Text
	}
	return out
}
