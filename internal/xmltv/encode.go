package xmltv

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// Encode writes the document as UTF-8 XML, starting with an XML declaration.
// Top-level nodes are separated by newlines; the content of the root element
// is written exactly as held.
func (d *Document) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return fmt.Errorf("writing xml declaration: %w", err)
	}
	for _, n := range d.Nodes {
		encodeNode(bw, n)
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing guide: %w", err)
	}
	return nil
}

// String returns the encoded document.
func (d *Document) String() string {
	var sb strings.Builder
	// strings.Builder never fails a write.
	_ = d.Encode(&sb)
	return sb.String()
}

// encodeNode writes n to bw. Write errors are sticky in bufio.Writer and
// surface on Flush.
func encodeNode(bw *bufio.Writer, n *Node) {
	switch n.Kind {
	case ElementNode:
		bw.WriteByte('<')
		bw.WriteString(n.Name)
		for _, a := range n.Attrs {
			bw.WriteByte(' ')
			bw.WriteString(a.Name)
			bw.WriteString(`="`)
			attrEscaper.WriteString(bw, a.Value)
			bw.WriteByte('"')
		}
		if len(n.Children) == 0 {
			bw.WriteString("/>")
			return
		}
		bw.WriteByte('>')
		for _, child := range n.Children {
			encodeNode(bw, child)
		}
		bw.WriteString("</")
		bw.WriteString(n.Name)
		bw.WriteByte('>')
	case CharDataNode:
		textEscaper.WriteString(bw, n.Text)
	case CommentNode:
		bw.WriteString("<!--")
		bw.WriteString(n.Text)
		bw.WriteString("-->")
	case DirectiveNode:
		bw.WriteString("<!")
		bw.WriteString(n.Text)
		bw.WriteByte('>')
	case ProcInstNode:
		bw.WriteString("<?")
		bw.WriteString(n.Name)
		if n.Text != "" {
			bw.WriteByte(' ')
			bw.WriteString(n.Text)
		}
		bw.WriteString("?>")
	}
}
