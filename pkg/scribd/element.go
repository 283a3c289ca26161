package scribd

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is a node of a parsed API response.
//
// An element holding only character data (or a single CDATA section) has no
// children and exposes its trimmed text. An element with child elements has
// no text.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element

	attrs   []xml.Attr
	text    string
	hasText bool
}

// ParseElement parses an XML document and returns its root element.
func ParseElement(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*Element
		chars []*bytes.Buffer
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
				attrs: t.Copy().Attr,
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, fmt.Errorf("failed to parse xml: multiple root elements")
			}
			stack = append(stack, el)
			chars = append(chars, &bytes.Buffer{})

		case xml.CharData:
			if len(chars) > 0 {
				chars[len(chars)-1].Write(t)
			}

		case xml.EndElement:
			el := stack[len(stack)-1]
			if len(el.Children) == 0 && chars[len(chars)-1].Len() > 0 {
				el.text = strings.TrimSpace(chars[len(chars)-1].String())
				el.hasText = true
			}
			stack = stack[:len(stack)-1]
			chars = chars[:len(chars)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("failed to parse xml: no root element")
	}
	return root, nil
}

// Text returns the trimmed text content of the element. The second return
// value is false if the element has child elements or no content at all;
// whitespace-only content is an empty text.
func (e *Element) Text() (string, bool) {
	return e.text, e.hasText
}

// Len returns the number of child elements.
func (e *Element) Len() int {
	return len(e.Children)
}

// Child returns the child element at position i, or nil if out of range.
func (e *Element) Child(i int) *Element {
	if i < 0 || i >= len(e.Children) {
		return nil
	}
	return e.Children[i]
}

// Get returns the first child element with the given name.
func (e *Element) Get(name string) (*Element, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Has reports whether a child element with the given name exists.
func (e *Element) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// ChildText returns the text of the named child element.
func (e *Element) ChildText(name string) (string, error) {
	c, ok := e.Get(name)
	if !ok {
		return "", fmt.Errorf("element %q has no %q child", e.Name, name)
	}
	text, _ := c.Text()
	return text, nil
}

// XML serializes the element and its descendants.
func (e *Element) XML() string {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := e.encode(enc); err != nil {
		return fmt.Sprintf("<%s>", e.Name)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Sprintf("<%s>", e.Name)
	}
	return buf.String()
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	for _, a := range e.attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.hasText && e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func (e *Element) String() string {
	if e.hasText {
		return fmt.Sprintf("<Element %q text=%q>", e.Name, e.text)
	}
	return fmt.Sprintf("<Element %q children=%d>", e.Name, len(e.Children))
}
