// Package xmltv models an XMLTV guide as a generic, order-preserving XML tree
// so that a guide can be read, have its channel display names rewritten and
// be written back without losing anything the rewrite does not touch.
package xmltv

import "strings"

const (
	ElementTV          = "tv"
	ElementChannel     = "channel"
	ElementDisplayName = "display-name"
)

// NodeKind identifies what a Node holds.
type NodeKind int

const (
	ElementNode NodeKind = iota
	CharDataNode
	CommentNode
	DirectiveNode
	ProcInstNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case CharDataNode:
		return "chardata"
	case CommentNode:
		return "comment"
	case DirectiveNode:
		return "directive"
	case ProcInstNode:
		return "procinst"
	default:
		return "unknown"
	}
}

// Attr is an element attribute. Namespace prefixes stay part of Name.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the guide tree.
//
// Name is the element name (prefix included) or the processing instruction
// target. Text is the character data, comment body, directive body or
// processing instruction content. Only elements have Attrs and Children.
type Node struct {
	Kind     NodeKind
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind: n.Kind,
		Name: n.Name,
		Text: n.Text,
	}
	if n.Attrs != nil {
		out.Attrs = make([]Attr, len(n.Attrs))
		copy(out.Attrs, n.Attrs)
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Elements returns the element children of n named name, in order.
func (n *Node) Elements(name string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if child.Kind == ElementNode && child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// LeadingText returns the character data before the first non-text child,
// with adjacent text and CDATA sections joined. ok is false when the element
// does not start with character data.
func (n *Node) LeadingText() (string, bool) {
	count := n.leadingTextNodes()
	if count == 0 {
		return "", false
	}
	if count == 1 {
		return n.Children[0].Text, true
	}
	var b strings.Builder
	for _, child := range n.Children[:count] {
		b.WriteString(child.Text)
	}
	return b.String(), true
}

// setLeadingText replaces the leading character data with text. The first
// text node takes the new value and the ones after it are emptied, so the
// node count does not change.
func (n *Node) setLeadingText(text string) {
	for i, child := range n.Children[:n.leadingTextNodes()] {
		if i == 0 {
			child.Text = text
		} else {
			child.Text = ""
		}
	}
}

func (n *Node) leadingTextNodes() int {
	count := 0
	for count < len(n.Children) && n.Children[count].Kind == CharDataNode {
		count++
	}
	return count
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	total := 1
	for _, child := range n.Children {
		total += child.Count()
	}
	return total
}

// Document is a parsed guide: the top-level nodes in document order. Exactly
// one of them is the root element. The XML declaration is not kept.
type Document struct {
	Nodes []*Node
}

// Root returns the document element.
func (d *Document) Root() *Node {
	for _, n := range d.Nodes {
		if n.Kind == ElementNode {
			return n
		}
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{Nodes: make([]*Node, len(d.Nodes))}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}

// Count returns the number of nodes in the document.
func (d *Document) Count() int {
	total := 0
	for _, n := range d.Nodes {
		total += n.Count()
	}
	return total
}

// Channels returns the channel elements directly under the root.
func (d *Document) Channels() []*Node {
	root := d.Root()
	if root == nil {
		return nil
	}
	return root.Elements(ElementChannel)
}

// DisplayNames returns the leading text of every channel display-name, in
// document order.
func (d *Document) DisplayNames() []string {
	var names []string
	for _, ch := range d.Channels() {
		for _, dn := range ch.Elements(ElementDisplayName) {
			if text, ok := dn.LeadingText(); ok {
				names = append(names, text)
			}
		}
	}
	return names
}

// isSpace reports whether s is only XML whitespace.
func isSpace(s string) bool {
	return strings.Trim(s, " \t\r\n") == ""
}
