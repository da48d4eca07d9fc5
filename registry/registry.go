package registry

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ammubhave/roslyn/structure"
)

// Options configures manifest discovery.
type Options struct {
	Paths  []string
	Logger *log.Logger
}

// Registry discovers pattern providers from YAML manifests and supports hot
// reloading. It implements structure.Registry: provider order per language is
// manifest filename order within a path, paths in configuration order.
type Registry struct {
	opts    Options
	mu      sync.RWMutex
	byLang  map[string][]structure.Provider
	watchCh []chan struct{}
	loaded  time.Time
	logger  *log.Logger
}

// New builds an empty registry.
func New(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		opts:   opts,
		byLang: make(map[string][]structure.Provider),
		logger: logger,
	}
}

// Load scans the configured directories for manifests. A manifest that fails
// to load or compile is skipped with a log line; it never fails the scan.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLang = make(map[string][]structure.Provider)
	for _, dir := range r.searchPaths() {
		r.loadDir(dir)
	}
	r.loaded = time.Now()
	r.broadcast()
	return nil
}

// Reload rescans the filesystem and notifies subscribers.
func (r *Registry) Reload() error {
	return r.Load()
}

// ProvidersForLanguage returns the discovered providers for a language in
// registry order. An empty result is valid.
func (r *Registry) ProvidersForLanguage(languageID string) []structure.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byLang[languageID]
}

// Languages lists every language with at least one discovered provider.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.byLang))
	for lang := range r.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Watch registers a listener notified on every reload.
func (r *Registry) Watch() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{}, 1)
	r.watchCh = append(r.watchCh, ch)
	return ch
}

func (r *Registry) broadcast() {
	for _, ch := range r.watchCh {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (r *Registry) loadDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		manifest, err := LoadManifest(path)
		if err != nil {
			r.logger.Printf("registry: skipping %s: %v", path, err)
			continue
		}
		provider, err := manifest.Provider()
		if err != nil {
			r.logger.Printf("registry: skipping %s: %v", path, err)
			continue
		}
		r.byLang[manifest.Language] = append(r.byLang[manifest.Language], provider)
	}
}

func (r *Registry) searchPaths() []string {
	set := make(map[string]struct{})
	var resolved []string
	for _, path := range r.opts.Paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, exists := set[path]; exists {
			continue
		}
		set[path] = struct{}{}
		resolved = append(resolved, path)
	}
	return resolved
}

// StartWatcher polls the search paths and reloads when a manifest changes.
func (r *Registry) StartWatcher(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		last := r.snapshot()
		for {
			select {
			case <-ticker.C:
				newest := r.snapshot()
				if newest.After(last) {
					_ = r.Load()
					last = newest
				}
			case <-stop:
				return
			}
		}
	}()
}

func (r *Registry) snapshot() time.Time {
	var newest time.Time
	for _, path := range r.searchPaths() {
		filepath.WalkDir(path, func(current string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if info, err := os.Stat(current); err == nil && info.ModTime().After(newest) {
				newest = info.ModTime()
			}
			return nil
		})
	}
	return newest
}
