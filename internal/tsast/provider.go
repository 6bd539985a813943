package tsast

import (
	"context"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheSize bounds the number of parsed files kept in memory.
const DefaultCacheSize = 4096

// Reader supplies file contents to the provider.
type Reader interface {
	Read(path string) ([]byte, error)
}

// Provider parses TypeScript files on demand and resolves identifiers.
type Provider struct {
	reader Reader
	cache  *lru.Cache[string, *SourceFile]

	mu      sync.RWMutex
	ambient map[string]string
}

// NewProvider creates a provider reading files through reader.
func NewProvider(reader Reader, cacheSize int) (*Provider, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *SourceFile](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Provider{
		reader:  reader,
		cache:   cache,
		ambient: make(map[string]string),
	}, nil
}

// File returns the parsed file at path.
func (p *Provider) File(path string) (*SourceFile, error) {
	return p.FileCtx(context.Background(), path)
}

// FileCtx is File with a context for the parse.
func (p *Provider) FileCtx(ctx context.Context, path string) (*SourceFile, error) {
	if f, ok := p.cache.Get(path); ok {
		return f, nil
	}
	src, err := p.reader.Read(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	p.cache.Add(path, f)
	return f, nil
}

// Preload parses paths concurrently into the cache.
func (p *Provider) Preload(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		path := path
		if p.cache.Contains(path) {
			continue
		}
		g.Go(func() error {
			_, err := p.FileCtx(ctx, path)
			return err
		})
	}
	return g.Wait()
}

// Invalidate drops cached parses for paths whose content changed.
func (p *Provider) Invalidate(paths ...string) {
	for _, path := range paths {
		p.cache.Remove(path)
	}
}

// AddAmbientTypes indexes the top-level `declare` names of a type
// definition file.
func (p *Provider) AddAmbientTypes(ctx context.Context, path string) error {
	src, err := p.reader.Read(path)
	if err != nil {
		return err
	}
	f, err := Parse(ctx, path, src)
	if err != nil {
		return err
	}
	names := ambientNames(f.Root)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, name := range names {
		if _, exists := p.ambient[name]; !exists {
			p.ambient[name] = path
		}
	}
	return nil
}
