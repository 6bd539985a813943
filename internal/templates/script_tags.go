package templates

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/toyz/ngmigrate/internal/rewrite"
)

var hammerScriptSrc = regexp.MustCompile(`.*\/hammer(\.min)?\.js($|\?)`)

// IsHammerScriptSrc reports whether a script src loads HammerJS.
func IsHammerScriptSrc(src string) bool {
	return hammerScriptSrc.MatchString(src)
}

// FindHammerScriptTags returns the spans of `<script>` elements loading
// HammerJS, each widened over its indentation and the preceding line break.
func FindHammerScriptTags(document string) []rewrite.Span {
	var spans []rewrite.Span
	z := html.NewTokenizer(strings.NewReader(document))
	offset := 0
	var open *rewrite.Span
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "script" {
				continue
			}
			matched := false
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" && IsHammerScriptSrc(string(val)) {
					matched = true
				}
			}
			if !matched {
				continue
			}
			span := rewrite.Span{Start: start, End: offset}
			if tt == html.SelfClosingTagToken {
				spans = append(spans, widen(document, span))
				continue
			}
			open = &span
		case html.EndTagToken:
			name, _ := z.TagName()
			if open != nil && string(name) == "script" {
				open.End = offset
				spans = append(spans, widen(document, *open))
				open = nil
			}
		}
	}
	if open != nil {
		open.End = len(document)
		spans = append(spans, widen(document, *open))
	}
	return spans
}

func widen(document string, s rewrite.Span) rewrite.Span {
	start := s.Start
	for start > 0 && (document[start-1] == ' ' || document[start-1] == '\t') {
		start--
	}
	if start > 0 && document[start-1] == '\n' {
		start--
		if start > 0 && document[start-1] == '\r' {
			start--
		}
	} else {
		start = s.Start
	}
	return rewrite.Span{Start: start, End: s.End}
}
