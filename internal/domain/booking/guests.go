package booking

import "strings"

// GuestList holds the extra invitee addresses for one form, in the order they
// were added, plus the free-text buffer the user is still typing in. Entries
// are unique.
type GuestList struct {
	entries  []string
	buffer   string
	expanded bool
}

func (g *GuestList) Expanded() bool { return g.expanded }

// ToggleExpanded flips the guest-entry affordance. Guest data is untouched.
func (g *GuestList) ToggleExpanded() { g.expanded = !g.expanded }

func (g *GuestList) Buffer() string { return g.buffer }

func (g *GuestList) UpdateBuffer(text string) { g.buffer = text }

// CommitBuffer trims the buffer and appends it to the list, clearing the
// buffer on success. Anything empty, lacking an "@", or already present is
// left alone silently: the gate here is a cheap heuristic, and the strict
// email rule runs at submit time.
func (g *GuestList) CommitBuffer() bool {
	v := strings.TrimSpace(g.buffer)
	if v == "" || !strings.Contains(v, "@") {
		return false
	}
	if g.Contains(v) {
		return false
	}
	g.entries = append(g.entries, v)
	g.buffer = ""
	return true
}

// Remove drops the matching entry. There is at most one.
func (g *GuestList) Remove(email string) bool {
	for i, e := range g.entries {
		if e == email {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (g *GuestList) Contains(email string) bool {
	for _, e := range g.entries {
		if e == email {
			return true
		}
	}
	return false
}

// Entries returns a copy of the current guest sequence.
func (g *GuestList) Entries() []string {
	out := make([]string, len(g.entries))
	copy(out, g.entries)
	return out
}
