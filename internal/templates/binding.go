package templates

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// EventBinding is an attribute name binding an event, either `(name)` or
// the canonical `on-name` form
type EventBinding struct {
	Paren *string `parser:"  '(' @Ident ')'"`
	On    *string `parser:"| OnPrefix @Ident"`
}

// Event returns the bound event name
func (b *EventBinding) Event() string {
	if b.Paren != nil {
		return *b.Paren
	}
	if b.On != nil {
		return *b.On
	}
	return ""
}

var bindingParser = participle.MustBuild[EventBinding](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "OnPrefix", Pattern: `on-`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
		{Name: "Punct", Pattern: `[()]`},
	})),
	participle.UseLookahead(2),
)

// ParseEventBinding returns the event bound by an attribute name, if any
func ParseEventBinding(attr string) (string, bool) {
	if !strings.HasPrefix(attr, "(") && !strings.HasPrefix(attr, "on-") {
		return "", false
	}
	binding, err := bindingParser.ParseString("", attr)
	if err != nil {
		return "", false
	}
	event := binding.Event()
	return event, event != ""
}
