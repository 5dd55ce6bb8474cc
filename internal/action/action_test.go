package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, name := range Names() {
		act, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, act.String())
	}

	_, err := Parse("teleport")
	assert.Error(t, err)

	_, err = Parse("Keep") // names are case-sensitive lowercase
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("keep"))
	assert.True(t, Valid("disabled"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("teleport"))
}

// counters records how often each trigger fired.
type counters struct {
	keep, reject, next, previous, skip int
}

func newCountingRouter() (*Router, *counters) {
	c := &counters{}
	r := NewRouter(Triggers{
		Keep:     func() { c.keep++ },
		Reject:   func() { c.reject++ },
		Next:     func() { c.next++ },
		Previous: func() { c.previous++ },
		Skip:     func() { c.skip++ },
	})
	return r, c
}

func TestRouterDispatch(t *testing.T) {
	r, c := newCountingRouter()
	r.Rebind(map[Gesture]string{
		PrimaryClick:   "keep",
		SecondaryClick: "reject",
		WheelUp:        "previous",
		WheelDown:      "next",
	})

	r.Trigger(PrimaryClick)
	r.Trigger(PrimaryClick)
	r.Trigger(SecondaryClick)
	r.Trigger(WheelUp)
	r.Trigger(WheelDown)

	assert.Equal(t, &counters{keep: 2, reject: 1, next: 1, previous: 1}, c)
}

func TestRebindReleasesOldBindings(t *testing.T) {
	r, c := newCountingRouter()
	r.Rebind(map[Gesture]string{PrimaryClick: "keep"})
	r.Trigger(PrimaryClick)
	require.Equal(t, 1, c.keep)

	r.Rebind(map[Gesture]string{PrimaryClick: "skip"})
	r.Trigger(PrimaryClick)

	assert.Equal(t, 1, c.keep, "previous binding must not survive a rebind")
	assert.Equal(t, 1, c.skip)

	act, ok := r.Bound(PrimaryClick)
	require.True(t, ok)
	assert.Equal(t, Skip, act)
}

func TestRebindDisabledAndUnknown(t *testing.T) {
	r, c := newCountingRouter()
	r.Rebind(map[Gesture]string{
		PrimaryClick:   "disabled",
		SecondaryClick: "teleport",
	})

	// Neither gesture binds, and triggering them is a no-op.
	_, ok := r.Bound(PrimaryClick)
	assert.False(t, ok)
	_, ok = r.Bound(SecondaryClick)
	assert.False(t, ok)

	r.Trigger(PrimaryClick)
	r.Trigger(SecondaryClick)
	r.Trigger(WheelUp) // never mapped at all
	assert.Equal(t, &counters{}, c)
}

func TestNormalizeScroll(t *testing.T) {
	g, ok := NormalizeScroll(1.5)
	require.True(t, ok)
	assert.Equal(t, WheelUp, g)

	g, ok = NormalizeScroll(-0.25)
	require.True(t, ok)
	assert.Equal(t, WheelDown, g)

	_, ok = NormalizeScroll(0)
	assert.False(t, ok)
}

func TestSummary(t *testing.T) {
	r, _ := newCountingRouter()
	r.Rebind(map[Gesture]string{
		PrimaryClick:   "keep",
		SecondaryClick: "reject",
		WheelUp:        "previous",
		WheelDown:      "next",
	})
	assert.Equal(t, "L-Click: KEEP  |  R-Click: REJECT  |  Wheel: PREVIOUS/NEXT", r.Summary())

	r.Rebind(map[Gesture]string{})
	assert.Equal(t, "L-Click: DISABLED  |  R-Click: DISABLED  |  Wheel: DISABLED/DISABLED", r.Summary())
}
