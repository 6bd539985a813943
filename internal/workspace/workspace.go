package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/toyz/ngmigrate/internal/errors"
)

// DescriptorPaths are the workspace descriptor names, in lookup order.
var DescriptorPaths = []string{"/angular.json", "/.angular.json"}

// Reader reads workspace files by absolute workspace path.
type Reader interface {
	Read(path string) ([]byte, error)
	Exists(path string) bool
}

// Workspace is a loaded Angular workspace descriptor.
type Workspace struct {
	Path     string
	Projects []Project
}

// Project is one project of the workspace.
type Project struct {
	Name       string
	Type       string
	Root       string
	SourceRoot string
	Targets    []Target
}

// Target is a buildable unit of a project. All paths are workspace paths
// starting with "/".
type Target struct {
	Project    string
	Name       string
	Builder    string
	Root       string
	SourceRoot string
	Main       string
	IndexFiles []string
	TSConfig   string
	IsTest     bool
}

// ID returns "project:target".
func (t Target) ID() string {
	return t.Project + ":" + t.Name
}

type descriptor struct {
	Projects map[string]projectJSON `json:"projects"`
}

type projectJSON struct {
	ProjectType string                `json:"projectType"`
	Root        string                `json:"root"`
	SourceRoot  string                `json:"sourceRoot"`
	Architect   map[string]targetJSON `json:"architect"`
	Targets     map[string]targetJSON `json:"targets"`
}

type targetJSON struct {
	Builder        string                 `json:"builder"`
	Options        optionsJSON            `json:"options"`
	Configurations map[string]optionsJSON `json:"configurations"`
}

type optionsJSON struct {
	Main     string          `json:"main"`
	Index    json.RawMessage `json:"index"`
	TSConfig string          `json:"tsConfig"`
}

// Load reads the workspace descriptor from the root of r.
func Load(r Reader) (*Workspace, error) {
	for _, p := range DescriptorPaths {
		if !r.Exists(p) {
			continue
		}
		content, err := r.Read(p)
		if err != nil {
			return nil, errors.WrapWorkspaceError(p, err)
		}
		ws, err := Parse(p, content)
		if err != nil {
			return nil, errors.WrapWorkspaceError(p, err)
		}
		return ws, nil
	}
	return nil, errors.WrapWorkspaceError(DescriptorPaths[0], fmt.Errorf("no workspace descriptor found"))
}

// Parse decodes a workspace descriptor.
func Parse(descriptorPath string, content []byte) (*Workspace, error) {
	var desc descriptor
	if err := json.NewDecoder(bytes.NewReader(content)).Decode(&desc); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(desc.Projects))
	for name := range desc.Projects {
		names = append(names, name)
	}
	sort.Strings(names)

	ws := &Workspace{Path: descriptorPath}
	for _, name := range names {
		pj := desc.Projects[name]
		root := workspacePath(pj.Root)
		sourceRoot := root
		if pj.SourceRoot != "" {
			sourceRoot = workspacePath(pj.SourceRoot)
		}
		project := Project{Name: name, Type: pj.ProjectType, Root: root, SourceRoot: sourceRoot}

		targets := pj.Architect
		if len(targets) == 0 {
			targets = pj.Targets
		}
		targetNames := make([]string, 0, len(targets))
		for tn := range targets {
			targetNames = append(targetNames, tn)
		}
		sort.Strings(targetNames)

		for _, tn := range targetNames {
			tj := targets[tn]
			if tj.Options.TSConfig == "" {
				continue
			}
			t := Target{
				Project:    name,
				Name:       tn,
				Builder:    tj.Builder,
				Root:       root,
				SourceRoot: sourceRoot,
				TSConfig:   workspacePath(tj.Options.TSConfig),
				IsTest:     isTestTarget(tn, tj.Builder),
			}
			if tj.Options.Main != "" {
				t.Main = workspacePath(tj.Options.Main)
			}
			t.IndexFiles = indexFiles(tj)
			project.Targets = append(project.Targets, t)
		}
		ws.Projects = append(ws.Projects, project)
	}
	return ws, nil
}

// Targets returns the targets of every project, optionally restricted to
// the named projects.
func (w *Workspace) Targets(projects ...string) []Target {
	allowed := make(map[string]bool, len(projects))
	for _, p := range projects {
		allowed[p] = true
	}
	var out []Target
	for _, p := range w.Projects {
		if len(allowed) > 0 && !allowed[p.Name] {
			continue
		}
		out = append(out, p.Targets...)
	}
	return out
}

func isTestTarget(name, builder string) bool {
	if name == "test" {
		return true
	}
	return strings.HasSuffix(builder, ":karma") || strings.HasSuffix(builder, ":jest")
}

// indexFiles collects the index HTML files of the default options and every
// configuration, without duplicates.
func indexFiles(tj targetJSON) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(raw json.RawMessage) {
		p := indexPath(raw)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}
	add(tj.Options.Index)

	configs := make([]string, 0, len(tj.Configurations))
	for name := range tj.Configurations {
		configs = append(configs, name)
	}
	sort.Strings(configs)
	for _, name := range configs {
		add(tj.Configurations[name].Index)
	}
	return out
}

// indexPath accepts both `"index": "src/index.html"` and
// `"index": {"input": "src/index.html", "output": "index.html"}`.
func indexPath(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return ""
		}
		return workspacePath(s)
	}
	var obj struct {
		Input string `json:"input"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Input != "" {
		return workspacePath(obj.Input)
	}
	return ""
}

func workspacePath(p string) string {
	return path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
}
