package templates

import (
	"strings"

	"golang.org/x/net/html"
)

// StandardEvents are the gesture events HammerJS recognizes out of the box.
var StandardEvents = []string{
	"pan", "panstart", "panmove", "panend", "pancancel", "panleft", "panright", "panup", "pandown",
	"pinch", "pinchstart", "pinchmove", "pinchend", "pinchcancel", "pinchin", "pinchout",
	"press", "pressup",
	"rotate", "rotatestart", "rotatemove", "rotateend", "rotatecancel",
	"swipe", "swipeleft", "swiperight", "swipeup", "swipedown",
	"tap",
}

// CustomEvents are the events only the Angular Material gesture config
// registers.
var CustomEvents = []string{
	"longpress", "slide", "slidestart", "slideend", "slideright", "slideleft",
}

var (
	standardEventSet = toSet(StandardEvents)
	customEventSet   = toSet(CustomEvents)
)

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Usage reports which gesture event categories a template binds to.
type Usage struct {
	StandardEvents bool
	CustomEvents   bool
}

// Any reports whether any gesture event is bound.
func (u Usage) Any() bool {
	return u.StandardEvents || u.CustomEvents
}

// Or merges two usages.
func (u Usage) Or(other Usage) Usage {
	return Usage{
		StandardEvents: u.StandardEvents || other.StandardEvents,
		CustomEvents:   u.CustomEvents || other.CustomEvents,
	}
}

// Scan reports the gesture events bound by a template. A binding that only
// happens to share its name with a gesture event counts as a match.
// Attribute names are compared after HTML case folding, so `(longPress)`
// matches `longpress` as well; the event plugin resolves standard gesture
// names case-insensitively too.
func Scan(template string) Usage {
	var usage Usage
	z := html.NewTokenizer(strings.NewReader(template))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return usage
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				var key []byte
				key, _, hasAttr = z.TagAttr()
				event, ok := ParseEventBinding(string(key))
				if !ok {
					continue
				}
				if standardEventSet[event] {
					usage.StandardEvents = true
				}
				if customEventSet[event] {
					usage.CustomEvents = true
				}
				if usage.StandardEvents && usage.CustomEvents {
					return usage
				}
			}
		}
	}
}
