package xmltv

// Renamer looks up the replacement for a display name.
type Renamer interface {
	Lookup(name string) (string, bool)
}

// Rewrite returns a copy of doc in which every <display-name> of every
// <channel> directly under the root has its text replaced when table knows
// it, together with the number of names replaced. Lookups always use the
// original text, so replacements never chain. doc is not modified and the
// copy has exactly the same nodes.
func Rewrite(doc *Document, table Renamer) (*Document, int) {
	out := doc.Clone()
	replaced := 0
	for _, ch := range out.Channels() {
		for _, dn := range ch.Elements(ElementDisplayName) {
			text, ok := dn.LeadingText()
			if !ok {
				continue
			}
			name, found := table.Lookup(text)
			if !found {
				continue
			}
			dn.setLeadingText(name)
			replaced++
		}
	}
	return out, replaced
}
