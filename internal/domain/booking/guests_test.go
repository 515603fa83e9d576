package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitBufferRejectsNonAddresses(t *testing.T) {
	cases := []string{"", "   ", "plainword", "no-at-sign.com", "\t\n"}
	for _, in := range cases {
		var g GuestList
		g.UpdateBuffer(in)
		assert.False(t, g.CommitBuffer(), "input %q", in)
		assert.Empty(t, g.Entries(), "input %q", in)
	}
}

func TestCommitBufferAppendsAndClears(t *testing.T) {
	var g GuestList
	g.UpdateBuffer("  bob@x.com  ")
	require.True(t, g.CommitBuffer())
	assert.Equal(t, []string{"bob@x.com"}, g.Entries())
	assert.Equal(t, "", g.Buffer())
}

func TestCommitBufferIsIdempotentForDuplicates(t *testing.T) {
	var g GuestList
	g.UpdateBuffer("bob@x.com")
	require.True(t, g.CommitBuffer())

	g.UpdateBuffer("bob@x.com")
	assert.False(t, g.CommitBuffer())
	assert.Equal(t, []string{"bob@x.com"}, g.Entries())
	// a rejected commit keeps the buffer so the user sees what they typed
	assert.Equal(t, "bob@x.com", g.Buffer())
}

func TestCommitBufferPreservesOrder(t *testing.T) {
	var g GuestList
	for _, e := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		g.UpdateBuffer(e)
		require.True(t, g.CommitBuffer())
	}
	assert.Equal(t, []string{"c@x.com", "a@x.com", "b@x.com"}, g.Entries())
}

func TestRemoveGuest(t *testing.T) {
	var g GuestList
	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		g.UpdateBuffer(e)
		require.True(t, g.CommitBuffer())
	}

	for _, victim := range []string{"a@x.com", "c@x.com", "b@x.com"} {
		assert.True(t, g.Remove(victim))
		assert.False(t, g.Contains(victim))
	}
	assert.Empty(t, g.Entries())
	assert.False(t, g.Remove("a@x.com"))
}

func TestToggleExpandedLeavesGuestsAlone(t *testing.T) {
	var g GuestList
	g.UpdateBuffer("a@x.com")
	require.True(t, g.CommitBuffer())

	assert.False(t, g.Expanded())
	g.ToggleExpanded()
	assert.True(t, g.Expanded())
	g.ToggleExpanded()
	assert.False(t, g.Expanded())
	assert.Equal(t, []string{"a@x.com"}, g.Entries())
}

func TestEntriesReturnsACopy(t *testing.T) {
	var g GuestList
	g.UpdateBuffer("a@x.com")
	require.True(t, g.CommitBuffer())

	got := g.Entries()
	got[0] = "mutated"
	assert.Equal(t, []string{"a@x.com"}, g.Entries())
}
