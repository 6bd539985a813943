package cli

import (
	"path"

	"github.com/toyz/ngmigrate/internal/analysis"
	"github.com/toyz/ngmigrate/internal/rewrite"
	"github.com/toyz/ngmigrate/internal/templates"
	"github.com/toyz/ngmigrate/internal/tsast"
)

// resourceReader reads referenced template files.
type resourceReader interface {
	Read(path string) ([]byte, error)
	Exists(path string) bool
}

// componentResources returns the inline templates of the components
// declared in f and the external templates they reference through
// `templateUrl`. External templates in seen are skipped; returned ones are
// added to it.
func componentResources(resolver tsast.Resolver, files resourceReader, f *tsast.SourceFile, seen map[string]bool) ([]templates.Resource, error) {
	var out []templates.Resource
	for _, n := range f.Nodes {
		if n.Kind != tsast.KindClassDeclaration {
			continue
		}
		meta := rewrite.DecoratorMetadata(resolver, n, analysis.ComponentName, analysis.AngularCoreModule)
		if meta == nil {
			continue
		}

		if pair := rewrite.MetadataField(meta, "template"); pair != nil {
			if value := tsast.Unwrap(pair.ChildByField("value")); value != nil {
				if content, ok := tsast.StringValue(value); ok {
					out = append(out, templates.Resource{
						FilePath: f.Path,
						Content:  content,
						Inline:   true,
						Start:    value.Start + 1,
					})
				}
			}
		}

		pair := rewrite.MetadataField(meta, "templateUrl")
		if pair == nil {
			continue
		}
		value := tsast.Unwrap(pair.ChildByField("value"))
		if value == nil {
			continue
		}
		url, ok := tsast.StringValue(value)
		if !ok {
			continue
		}
		p := path.Join(path.Dir(f.Path), url)
		if seen[p] || !files.Exists(p) {
			continue
		}
		content, err := files.Read(p)
		if err != nil {
			return nil, err
		}
		seen[p] = true
		out = append(out, templates.Resource{FilePath: p, Content: string(content)})
	}
	return out, nil
}
