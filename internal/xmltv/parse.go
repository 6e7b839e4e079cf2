package xmltv

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	ErrNoRoot        = errors.New("document has no root element")
	ErrNotXMLTV      = errors.New("root element is not <tv>")
	ErrMultipleRoots = errors.New("document has more than one root element")
	ErrTextOutside   = errors.New("character data outside the root element")
	ErrUnclosed      = errors.New("element is not closed")
	ErrMismatchedEnd = errors.New("end tag does not match start tag")
)

// ParseError reports a guide that is not well-formed XMLTV.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("xmltv: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("xmltv: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var utf8BOM = []byte("\xEF\xBB\xBF")

// Parse reads a guide document from r. Input in any charset the declaration
// names is accepted and held as UTF-8, and a leading UTF-8 byte order mark is
// skipped. Whitespace between top-level nodes is not kept; everything inside
// the root element is.
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec := xml.NewDecoder(br)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	fail := func(err error) (*Document, error) {
		line, _ := dec.InputPos()
		var syntaxErr *xml.SyntaxError
		if errors.As(err, &syntaxErr) {
			line = syntaxErr.Line
		}
		return nil, &ParseError{Line: line, Err: err}
	}

	doc := &Document{}
	var (
		stack    []*Node
		seenRoot bool
	)

	appendNode := func(n *Node) {
		if len(stack) == 0 {
			doc.Nodes = append(doc.Nodes, n)
			return
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, n)
	}

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if seenRoot {
					return fail(ErrMultipleRoots)
				}
				seenRoot = true
				if qualifiedName(t.Name) != ElementTV {
					return fail(fmt.Errorf("%w: got <%s>", ErrNotXMLTV, qualifiedName(t.Name)))
				}
			}
			el := &Node{Kind: ElementNode, Name: qualifiedName(t.Name)}
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: qualifiedName(a.Name), Value: a.Value})
			}
			appendNode(el)
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				return fail(fmt.Errorf("%w: unexpected </%s>", ErrMismatchedEnd, qualifiedName(t.Name)))
			}
			open := stack[len(stack)-1]
			if open.Name != qualifiedName(t.Name) {
				return fail(fmt.Errorf("%w: <%s> closed by </%s>", ErrMismatchedEnd, open.Name, qualifiedName(t.Name)))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := string(t)
			if len(stack) == 0 {
				if !isSpace(text) {
					return fail(ErrTextOutside)
				}
				continue
			}
			appendNode(&Node{Kind: CharDataNode, Text: text})

		case xml.Comment:
			appendNode(&Node{Kind: CommentNode, Text: string(t)})

		case xml.Directive:
			appendNode(&Node{Kind: DirectiveNode, Text: string(t)})

		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			appendNode(&Node{Kind: ProcInstNode, Name: t.Target, Text: string(t.Inst)})
		}
	}

	if len(stack) > 0 {
		return fail(fmt.Errorf("%w: <%s>", ErrUnclosed, stack[len(stack)-1].Name))
	}
	if !seenRoot {
		return fail(ErrNoRoot)
	}
	return doc, nil
}

// ParseString parses a guide held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses a guide held in memory.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
