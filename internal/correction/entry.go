package correction

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alorle/iptv-relay/internal/playlist"
)

// attributeFields maps correction table keys to the #EXTINF attribute they
// replace. tvg_chno is the spelling older tables use.
var attributeFields = map[string]string{
	"tvg-id":      playlist.AttrTVGID,
	"tvg-name":    playlist.AttrTVGName,
	"tvg-logo":    playlist.AttrTVGLogo,
	"tvg-shift":   playlist.AttrTVGShift,
	"tvg-chno":    playlist.AttrTVGChno,
	"tvg_chno":    playlist.AttrTVGChno,
	"group-title": playlist.AttrGroupTitle,
}

// decodeEntry reads one table value. Anything that is not a mapping yields
// an entry that keeps the channel as is. A field the M3U encoder could not
// write back in a parseable form counts as not given.
func decodeEntry(node *yaml.Node) Entry {
	var entry Entry
	if node.Kind != yaml.MappingNode {
		return entry
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		field, ok := scalar(node.Content[i])
		if !ok {
			continue
		}
		value := node.Content[i+1]

		switch field {
		case "name":
			if v, ok := scalar(value); ok && v != "" && !strings.ContainsAny(v, lineBreaks) {
				entry.Name = &v
			}
		case "extras":
			if extras := lines(value); len(extras) > 0 {
				entry.Extras = extras
			}
		case "disable":
			entry.Disable = truthy(value)
		case "attributes":
			if value.Kind != yaml.MappingNode {
				continue
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				k, okKey := scalar(value.Content[j])
				v, okValue := scalar(value.Content[j+1])
				if okKey && okValue && validAttributeKey(k) && validAttributeValue(v) {
					entry.Attributes.Set(k, v)
				}
			}
		default:
			attr, known := attributeFields[field]
			if !known {
				continue
			}
			if v, ok := scalar(value); ok && validAttributeValue(v) {
				entry.Attributes.Set(attr, v)
			}
		}
	}
	return entry
}

// scalar returns the text of a non-null scalar node.
func scalar(node *yaml.Node) (string, bool) {
	if node == nil || node.Kind != yaml.ScalarNode || node.ShortTag() == "!!null" {
		return "", false
	}
	return node.Value, true
}

// lines reads a sequence of scalars, or a single scalar, as tag lines.
// Items that are not a single '#' line, or that would open a new channel,
// are dropped.
func lines(node *yaml.Node) []string {
	if v, ok := scalar(node); ok {
		if !validExtra(v) {
			return nil
		}
		return []string{v}
	}
	if node.Kind != yaml.SequenceNode {
		return nil
	}
	var out []string
	for _, item := range node.Content {
		if v, ok := scalar(item); ok && validExtra(v) {
			out = append(out, v)
		}
	}
	return out
}

const (
	lineBreaks = "\r\n"
	extinfTag  = "#EXTINF:"
)

func validExtra(v string) bool {
	return strings.HasPrefix(v, "#") &&
		!strings.HasPrefix(v, extinfTag) &&
		!strings.ContainsAny(v, lineBreaks)
}

func validAttributeKey(k string) bool {
	return k != "" && !strings.ContainsAny(k, " \t\r\n=\",")
}

func validAttributeValue(v string) bool {
	return v != "" && !strings.ContainsAny(v, "\"\r\n")
}

// falseWords are the strings that leave a channel enabled, compared without
// case.
var falseWords = []string{"false", "no", "off", "0"}

// truthy reports whether a disable value switches the channel off. Booleans
// count as themselves, numbers when non-zero, strings when non-empty and not
// a false word, sequences and mappings when non-empty.
func truthy(node *yaml.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind {
	case yaml.AliasNode:
		return truthy(node.Alias)
	case yaml.SequenceNode, yaml.MappingNode:
		return len(node.Content) > 0
	case yaml.ScalarNode:
	default:
		return false
	}

	v := strings.TrimSpace(node.Value)
	switch node.ShortTag() {
	case "!!null":
		return false
	case "!!bool":
		b, err := strconv.ParseBool(v)
		return err != nil || b
	case "!!int", "!!float":
		v = strings.ReplaceAll(v, "_", "")
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f != 0
		}
		if n, err := strconv.ParseInt(v, 0, 64); err == nil {
			return n != 0
		}
		return true
	}
	if v == "" {
		return false
	}
	for _, word := range falseWords {
		if strings.EqualFold(v, word) {
			return false
		}
	}
	return true
}
