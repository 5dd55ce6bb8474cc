package action

import (
	"fmt"
	"log"
	"strings"
)

// Action is one of the operations a gesture can trigger.
type Action int

const (
	Disabled Action = iota
	Keep
	Reject
	Next
	Previous
	Skip
)

var actionNames = map[Action]string{
	Disabled: "disabled",
	Keep:     "keep",
	Reject:   "reject",
	Next:     "next",
	Previous: "previous",
	Skip:     "skip",
}

// String returns the lowercase configuration name of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Parse resolves a configuration name to an Action.
func Parse(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return Disabled, fmt.Errorf("unknown action name %q", name)
}

// Valid reports whether name is a recognized action name.
func Valid(name string) bool {
	_, err := Parse(name)
	return err == nil
}

// Names returns every action name in a fixed order, suitable for dialog options.
func Names() []string {
	return []string{"keep", "reject", "next", "previous", "skip", "disabled"}
}

// Gesture is a discrete user input signal an action can be bound to.
type Gesture int

const (
	PrimaryClick Gesture = iota
	SecondaryClick
	WheelUp
	WheelDown
)

var gestureNames = map[Gesture]string{
	PrimaryClick:   "primary click",
	SecondaryClick: "secondary click",
	WheelUp:        "wheel up",
	WheelDown:      "wheel down",
}

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return fmt.Sprintf("gesture(%d)", int(g))
}

// NormalizeScroll maps a signed wheel delta to a logical wheel gesture.
// Platforms deliver wheel input either as one signed signal or as two
// discrete ones; the UI funnels every variant through this so the router
// only ever sees WheelUp and WheelDown.
func NormalizeScroll(dy float32) (Gesture, bool) {
	switch {
	case dy > 0:
		return WheelUp, true
	case dy < 0:
		return WheelDown, true
	default:
		return WheelUp, false
	}
}

// Triggers holds the callbacks a Router dispatches to. Each is a pure
// trigger against whichever session is active.
type Triggers struct {
	Keep     func()
	Reject   func()
	Next     func()
	Previous func()
	Skip     func()
}

// Router resolves configured gesture→action-name mappings into callable
// bindings. It is rebuilt wholesale on every configuration change so no
// stale handler can survive a rebind.
type Router struct {
	triggers Triggers
	bindings map[Gesture]func()
	bound    map[Gesture]Action
}

// NewRouter creates a Router dispatching to the given triggers.
func NewRouter(triggers Triggers) *Router {
	return &Router{
		triggers: triggers,
		bindings: make(map[Gesture]func()),
		bound:    make(map[Gesture]Action),
	}
}

// Rebind replaces every binding with the given gesture→action-name mapping.
// All previous bindings are released first. Unknown action names are logged
// and treated as disabled; disabled gestures get no binding at all.
func (r *Router) Rebind(mappings map[Gesture]string) {
	r.bindings = make(map[Gesture]func())
	r.bound = make(map[Gesture]Action)

	for gesture, name := range mappings {
		act, err := Parse(name)
		if err != nil {
			log.Printf("Warning: %v for %s, treating as disabled", err, gesture)
			continue
		}
		if act == Disabled {
			continue
		}
		handler := r.resolve(act)
		if handler == nil {
			continue
		}
		r.bindings[gesture] = handler
		r.bound[gesture] = act
	}
}

// Trigger fires the action bound to the gesture, if any.
func (r *Router) Trigger(gesture Gesture) {
	if handler, ok := r.bindings[gesture]; ok {
		handler()
	}
}

// Bound returns the action currently bound to the gesture.
func (r *Router) Bound(gesture Gesture) (Action, bool) {
	act, ok := r.bound[gesture]
	return act, ok
}

// Summary renders the active bindings for the instructions label.
func (r *Router) Summary() string {
	label := func(g Gesture) string {
		if act, ok := r.bound[g]; ok {
			return strings.ToUpper(act.String())
		}
		return "DISABLED"
	}
	return fmt.Sprintf("L-Click: %s  |  R-Click: %s  |  Wheel: %s/%s",
		label(PrimaryClick), label(SecondaryClick), label(WheelUp), label(WheelDown))
}

func (r *Router) resolve(act Action) func() {
	switch act {
	case Keep:
		return r.triggers.Keep
	case Reject:
		return r.triggers.Reject
	case Next:
		return r.triggers.Next
	case Previous:
		return r.triggers.Previous
	case Skip:
		return r.triggers.Skip
	default:
		return nil
	}
}
