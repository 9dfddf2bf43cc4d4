// Package xmltree is a small mutable XML element tree.
//
// Elements keep attribute and child order, which the codec relies on when a
// tree is encoded back to the wire.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/go-xmlfmt/xmlfmt"
	"github.com/pkg/errors"
)

type Attr struct {
	Name  string
	Value string
}

type Element struct {
	Tag      string
	Text     string
	Attrs    []Attr
	Children []*Element
}

func New(tag string) *Element {
	return &Element{Tag: tag}
}

func NewText(tag, text string) *Element {
	return &Element{Tag: tag, Text: text}
}

// AddChild appends c and returns it.
func (e *Element) AddChild(c *Element) *Element {
	if c != nil {
		e.Children = append(e.Children, c)
	}
	return c
}

// Child returns the first child with the given tag.
func (e *Element) Child(tag string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func (e *Element) FirstChild() *Element {
	if e == nil || len(e.Children) == 0 {
		return nil
	}
	return e.Children[0]
}

// ChildText returns the text of the first child with the given tag.
func (e *Element) ChildText(tag string) (string, bool) {
	c := e.Child(tag)
	if c == nil {
		return "", false
	}
	return c.Text, true
}

// RemoveChild drops c from the children of e.
func (e *Element) RemoveChild(c *Element) {
	for i, child := range e.Children {
		if child == c {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			return
		}
	}
}

func (e *Element) ClearChildren() {
	e.Children = nil
}

func (e *Element) LookupAttr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// SetAttr replaces the value of an existing attribute or appends a new one.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

func (e *Element) DelAttr(name string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// Walk visits e and its descendants depth first. Returning false from fn
// stops the descent below the visited element.
func (e *Element) Walk(fn func(*Element) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	n := &Element{Tag: e.Tag, Text: e.Text}
	n.Attrs = append(n.Attrs, e.Attrs...)
	for _, c := range e.Children {
		n.Children = append(n.Children, c.Clone())
	}
	return n
}

// Parse reads a single document element.
func Parse(data []byte) (*Element, error) {
	return Decode(bytes.NewReader(data))
}

func Decode(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "xmltree.Decode")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := New(t.Name.Local)
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("xmltree.Decode: multiple root elements")
				}
				root = el
			} else {
				stack[len(stack)-1].AddChild(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("xmltree.Decode: no root element")
	}
	return root, nil
}

// WriteTo writes the compact form of e.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	e.write(&buf)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (e *Element) write(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.Tag)
	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}
	if e.Text == "" && len(e.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	xml.EscapeText(buf, []byte(e.Text))
	for _, c := range e.Children {
		c.write(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.Tag)
	buf.WriteByte('>')
}

func (e *Element) String() string {
	if e == nil {
		return ""
	}
	var buf bytes.Buffer
	e.write(&buf)
	return buf.String()
}

// Indent returns e pretty printed with the given indent string.
func (e *Element) Indent(indent string) string {
	s := xmlfmt.FormatXML(e.String(), "", indent)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
