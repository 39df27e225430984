package agenda

// Seen records the issue URLs already placed in one agenda so later sections
// do not list them again. A fresh Seen is used for every document. It is not
// safe for concurrent use.
type Seen struct {
	urls map[string]struct{}
}

func NewSeen() *Seen {
	return &Seen{urls: make(map[string]struct{})}
}

// Insert records url and reports whether it was new.
func (s *Seen) Insert(url string) bool {
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Len returns how many distinct URLs have been recorded.
func (s *Seen) Len() int {
	return len(s.urls)
}
