package models

// Issue is an issue or pull request as listed in the agenda. It is read-only
// once fetched.
type Issue struct {
	Number int
	URL    string
	Title  string
	Labels []string
}

// HasLabel reports whether the issue carries the label.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// HasAllLabels reports whether the issue carries every label in labels.
func (i Issue) HasAllLabels(labels []string) bool {
	for _, l := range labels {
		if !i.HasLabel(l) {
			return false
		}
	}
	return true
}
