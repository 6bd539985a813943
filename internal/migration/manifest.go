package migration

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/toyz/ngmigrate/internal/analysis"
	"github.com/toyz/ngmigrate/internal/errors"
	"github.com/toyz/ngmigrate/internal/rewrite"
	"github.com/toyz/ngmigrate/internal/utils/fileops"
)

// ManifestPath is the package manifest of the workspace.
const ManifestPath = "/package.json"

// RemoveHammerFromManifest deletes the HammerJS entry from the manifest
// dependencies and reports whether the manifest changed. Only the entry is
// removed; the rest of the file keeps its formatting. Dev dependencies are
// left alone.
func RemoveHammerFromManifest(tree fileops.Tree) (bool, error) {
	if !tree.Exists(ManifestPath) {
		return false, nil
	}
	content, err := tree.Read(ManifestPath)
	if err != nil {
		return false, errors.WrapManifestError(ManifestPath, err)
	}
	spans, err := dependencySpans(content, analysis.HammerPackage)
	if err != nil {
		return false, errors.WrapManifestError(ManifestPath, err)
	}
	if len(spans) == 0 {
		return false, nil
	}

	rec := rewrite.NewRecorder(ManifestPath, string(content))
	for _, s := range spans {
		rec.Remove(s.Start, s.End-s.Start)
	}
	updated, err := rec.Apply()
	if err != nil {
		return false, errors.WrapManifestError(ManifestPath, err)
	}
	if err := tree.Overwrite(ManifestPath, []byte(updated)); err != nil {
		return false, errors.WrapManifestError(ManifestPath, err)
	}
	return true, nil
}

// dependencySpans returns the byte ranges to delete so that name disappears
// from the top-level "dependencies" object.
func dependencySpans(content []byte, name string) ([]rewrite.Span, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("manifest is not a JSON object")
	}

	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if key != "dependencies" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, nil
		}
		open := int(dec.InputOffset())

		var items []rewrite.Span
		var remove []bool
		found := false
		for dec.More() {
			start := skipSeparators(content, int(dec.InputOffset()))
			member, err := dec.Token()
			if err != nil {
				return nil, err
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, err
			}
			items = append(items, rewrite.Span{Start: start, End: int(dec.InputOffset())})
			remove = append(remove, member == name)
			found = found || member == name
		}
		if !found {
			return nil, nil
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		closing := int(dec.InputOffset()) - 1

		allRemoved := true
		for _, r := range remove {
			allRemoved = allRemoved && r
		}
		if allRemoved {
			return []rewrite.Span{{Start: open, End: closing}}, nil
		}
		return rewrite.ListRemovals(string(content), items, remove), nil
	}
	return nil, nil
}

func skipSeparators(content []byte, i int) int {
	for i < len(content) {
		switch content[i] {
		case ' ', '\t', '\n', '\r', ',':
			i++
		default:
			return i
		}
	}
	return i
}
