// Package docx reads, edits and writes WordprocessingML (.docx) packages.
//
// It models only what the CV pipeline touches: body paragraphs and tables,
// runs, paragraph and run formatting, the styles part, section properties and
// header/footer parts. Everything else in a package is carried through
// unchanged.
package docx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Document is an opened .docx package.
type Document struct {
	pkg      *pkg
	mainPart string
	main     *xmlPart
	styles   *Styles
}

// Open reads the .docx file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a .docx package.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	p, err := readPackage(r, size)
	if err != nil {
		return nil, err
	}
	return load(p)
}

// New returns a minimal empty document carrying the built-in Normal, Title,
// Heading 1-3 and List Bullet styles.
func New() *Document {
	p := &pkg{index: make(map[string]*part)}
	p.put(contentTypesPart, []byte(blankContentTypes))
	p.put(packageRelsPart, []byte(blankPackageRels))
	p.put("word/document.xml", []byte(blankDocument))
	p.put("word/_rels/document.xml.rels", []byte(blankDocumentRels))
	p.put("word/styles.xml", []byte(blankStyles))
	d, err := load(p)
	if err != nil {
		// The blank parts are constants; failing to parse them is a programming error.
		panic(fmt.Sprintf("docx: blank package: %v", err))
	}
	return d
}

func load(p *pkg) (*Document, error) {
	if !p.has(contentTypesPart) {
		return nil, fmt.Errorf("not a docx package: missing %s", contentTypesPart)
	}
	mainPart, ok := p.target("", relTypeOfficeDocument)
	if !ok {
		mainPart = "word/document.xml"
	}
	main, err := p.xml(mainPart)
	if err != nil {
		return nil, err
	}
	if main.root.Tag != "w:document" || main.root.Child("w:body") == nil {
		return nil, fmt.Errorf("%s: not a WordprocessingML document", mainPart)
	}
	return &Document{pkg: p, mainPart: mainPart, main: main}, nil
}

// Save writes the package to path, creating parent directories as needed.
func (d *Document) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := d.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTo serializes the package as a zip archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.pkg.writeTo(w)
}

// Bytes returns the serialized package.
func (d *Document) Bytes() ([]byte, error) {
	var b bytes.Buffer
	if _, err := d.WriteTo(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// PartNames lists every part in the package, sorted.
func (d *Document) PartNames() []string { return d.pkg.names() }

// Part returns the current serialized bytes of a part.
func (d *Document) Part(name string) ([]byte, bool) { return d.pkg.partBytes(name) }

// Body returns the document body container.
func (d *Document) Body() *Container {
	return &Container{node: d.main.root.Child("w:body"), doc: d}
}

// Paragraphs returns the body-level paragraphs in order.
func (d *Document) Paragraphs() []*Paragraph { return d.Body().Paragraphs() }

// Tables returns the body-level tables in order.
func (d *Document) Tables() []*Table { return d.Body().Tables() }

// Styles returns the styles part, creating an empty one when the package
// has none.
func (d *Document) Styles() (*Styles, error) {
	if d.styles != nil {
		return d.styles, nil
	}
	name, ok := d.pkg.target(d.mainPart, relTypeStyles)
	if !ok || !d.pkg.has(name) {
		name = "word/styles.xml"
		d.pkg.addXML(name, &xmlPart{
			header: xmlHeader,
			root:   NewNode("w:styles", Attr{Name: "xmlns:w", Value: nsW}),
		})
		if _, err := d.pkg.addRelationship(d.mainPart, relTypeStyles, "styles.xml"); err != nil {
			return nil, err
		}
		if err := d.pkg.addOverride(name, ctStyles); err != nil {
			return nil, err
		}
	}
	part, err := d.pkg.xml(name)
	if err != nil {
		return nil, err
	}
	d.styles = &Styles{root: part.root}
	return d.styles, nil
}

// styleName resolves a style id to its display name, falling back to the id.
func (d *Document) styleName(id string) string {
	if id == "" {
		return ""
	}
	st, err := d.Styles()
	if err != nil {
		return id
	}
	if s := st.ByID(id); s != nil && s.Name() != "" {
		return s.Name()
	}
	return id
}

// Sections returns the section properties of the document. The body-level
// sectPr is always last; one is created when the body has none.
func (d *Document) Sections() []*Section {
	body := d.main.root.Child("w:body")
	var out []*Section
	for _, p := range body.ChildrenTagged("w:p") {
		if pPr := p.Child("w:pPr"); pPr != nil {
			if s := pPr.Child("w:sectPr"); s != nil {
				out = append(out, &Section{node: s, doc: d})
			}
		}
	}
	last := body.Child("w:sectPr")
	if last == nil {
		last = NewNode("w:sectPr")
		body.Append(last)
	}
	return append(out, &Section{node: last, doc: d})
}

// HeaderFooterParts returns the containers of every header and footer part
// referenced from any section, in section order.
func (d *Document) HeaderFooterParts() []*Container {
	var out []*Container
	seen := map[string]bool{}
	for _, s := range d.Sections() {
		for _, ref := range s.node.ChildrenTagged("w:headerReference", "w:footerReference") {
			name, ok := d.pkg.targetByID(d.mainPart, ref.Attr("r:id"))
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			part, err := d.pkg.xml(name)
			if err != nil {
				continue
			}
			out = append(out, &Container{node: part.root, doc: d})
		}
	}
	return out
}
