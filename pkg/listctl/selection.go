package listctl

import "slices"

// selection is the set of checked item ids
type selection map[string]struct{}

func (s selection) toggle(id string) {
	if _, ok := s[id]; ok {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

func (s selection) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s selection) clear() {
	clear(s)
}

// ids returns the selected ids sorted for deterministic bulk payloads
func (s selection) ids() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// allOf reports whether every id is selected; false for no ids
func (s selection) allOf(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.has(id) {
			return false
		}
	}
	return true
}
