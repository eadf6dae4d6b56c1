package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"

	ctStyles = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctHeader = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ctFooter = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"

	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"
)

type part struct {
	name string
	raw  []byte
	tree *xmlPart
}

func (p *part) bytes() []byte {
	if p.tree != nil {
		return p.tree.bytes()
	}
	return p.raw
}

// pkg is the OPC container: an ordered set of named parts. Parts that are
// never parsed are written back byte for byte.
type pkg struct {
	parts []*part
	index map[string]*part
}

func readPackage(r io.ReaderAt, size int64) (*pkg, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	p := &pkg{index: make(map[string]*part)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		p.put(f.Name, data)
	}
	return p, nil
}

func (p *pkg) put(name string, data []byte) *part {
	if existing, ok := p.index[name]; ok {
		existing.raw = data
		existing.tree = nil
		return existing
	}
	pt := &part{name: name, raw: data}
	p.parts = append(p.parts, pt)
	p.index[name] = pt
	return pt
}

func (p *pkg) has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// xml returns the parsed tree of a part, parsing it on first use.
func (p *pkg) xml(name string) (*xmlPart, error) {
	pt, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	if pt.tree == nil {
		tree, err := parseXML(pt.raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pt.tree = tree
		pt.raw = nil
	}
	return pt.tree, nil
}

func (p *pkg) addXML(name string, tree *xmlPart) {
	pt := p.put(name, nil)
	pt.tree = tree
}

func (p *pkg) writeTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, pt := range p.parts {
		// Zero timestamps keep the archive byte-stable across saves.
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: pt.name, Method: zip.Deflate})
		if err != nil {
			return cw.n, err
		}
		if _, err := fw.Write(pt.bytes()); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// relsName returns the relationships part that belongs to partName.
func relsName(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

// relationships returns the parsed rels part for partName, creating an empty
// one when the package has none.
func (p *pkg) relationships(partName string) (*xmlPart, error) {
	name := relsName(partName)
	if !p.has(name) {
		p.addXML(name, &xmlPart{
			header: xmlHeader,
			root:   NewNode("Relationships", Attr{Name: "xmlns", Value: nsRel}),
		})
	}
	return p.xml(name)
}

// target resolves the first relationship of relType from partName to a part name.
func (p *pkg) target(partName, relType string) (string, bool) {
	rels, err := p.relationships(partName)
	if err != nil {
		return "", false
	}
	for _, rel := range rels.root.ChildrenTagged("Relationship") {
		if rel.Attr("Type") == relType {
			return resolveTarget(partName, rel.Attr("Target")), true
		}
	}
	return "", false
}

func (p *pkg) targetByID(partName, id string) (string, bool) {
	rels, err := p.relationships(partName)
	if err != nil {
		return "", false
	}
	for _, rel := range rels.root.ChildrenTagged("Relationship") {
		if rel.Attr("Id") == id {
			return resolveTarget(partName, rel.Attr("Target")), true
		}
	}
	return "", false
}

func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// addRelationship registers target from partName and returns the new id.
func (p *pkg) addRelationship(partName, relType, target string) (string, error) {
	rels, err := p.relationships(partName)
	if err != nil {
		return "", err
	}
	maxID := 0
	for _, rel := range rels.root.ChildrenTagged("Relationship") {
		id := rel.Attr("Id")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > maxID {
			maxID = n
		}
	}
	id := "rId" + strconv.Itoa(maxID+1)
	rels.root.Append(NewNode("Relationship",
		Attr{Name: "Id", Value: id},
		Attr{Name: "Type", Value: relType},
		Attr{Name: "Target", Value: target},
	))
	return id, nil
}

// addOverride declares the content type of a new part.
func (p *pkg) addOverride(partName, contentType string) error {
	ct, err := p.xml(contentTypesPart)
	if err != nil {
		return err
	}
	want := "/" + partName
	for _, o := range ct.root.ChildrenTagged("Override") {
		if o.Attr("PartName") == want {
			o.SetAttr("ContentType", contentType)
			return nil
		}
	}
	ct.root.Append(NewNode("Override",
		Attr{Name: "PartName", Value: want},
		Attr{Name: "ContentType", Value: contentType},
	))
	return nil
}

// freeName returns the first "<dir>/<prefix>N.xml" not present in the package.
func (p *pkg) freeName(dir, prefix string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s/%s%d.xml", dir, prefix, i)
		if !p.has(name) {
			return name
		}
	}
}

func (p *pkg) names() []string {
	out := make([]string, 0, len(p.parts))
	for _, pt := range p.parts {
		out = append(out, pt.name)
	}
	sort.Strings(out)
	return out
}

func (p *pkg) partBytes(name string) ([]byte, bool) {
	pt, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return bytes.Clone(pt.bytes()), true
}
