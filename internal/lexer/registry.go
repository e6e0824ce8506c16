package lexer

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Registry manages available tokenizers.
type Registry struct {
	mu sync.RWMutex

	// byLanguage maps language names to tokenizers
	byLanguage map[string]Tokenizer

	// byExtension maps file extensions to tokenizers
	byExtension map[string]Tokenizer
}

// NewRegistry creates a new tokenizer registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]Tokenizer),
		byExtension: make(map[string]Tokenizer),
	}
}

// Register adds a tokenizer to the registry, replacing any tokenizer
// registered under the same language or extensions.
func (r *Registry) Register(t Tokenizer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[t.Language()] = t
	for _, ext := range t.FileExtensions() {
		r.byExtension[normalizeExt(ext)] = t
	}
}

// GetByLanguage returns the tokenizer for the given language.
func (r *Registry) GetByLanguage(language string) (Tokenizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byLanguage[strings.ToLower(language)]
	return t, ok
}

// GetByExtension returns the tokenizer for the given file extension.
func (r *Registry) GetByExtension(ext string) (Tokenizer, bool) {
	if ext == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byExtension[normalizeExt(ext)]
	return t, ok
}

// Resolve picks a tokenizer by language name if given, otherwise by the
// extension of path.
func (r *Registry) Resolve(language, path string) (Tokenizer, error) {
	if language != "" {
		if t, ok := r.GetByLanguage(language); ok {
			return t, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	if t, ok := r.GetByExtension(filepath.Ext(path)); ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: no tokenizer for %q", ErrUnknownLanguage, filepath.Base(path))
}

// Languages returns all registered language names in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// DefaultRegistry returns a registry with the built-in tokenizers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Java())
	r.Register(Go())
	r.Register(JavaScript())
	r.Register(C())
	return r
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
