package templates

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/heraerp/coa/internal/model"
)

const (
	baseDir      = "base"
	baseFile     = "universal-base.json"
	countriesDir = "countries"
	industryDir  = "industries"

	cacheKeyBase = "base"
)

// Store loads template documents from a config directory and caches them in
// memory. The base template is mandatory; country and industry templates are
// optional and their absence is an absence signal, not an error.
type Store struct {
	dir string
	log zerolog.Logger

	mu    sync.RWMutex
	cache map[string]*model.Template
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir:   dir,
		log:   log,
		cache: make(map[string]*model.Template),
	}
}

// BaseTemplate returns the universal base template. A missing or malformed
// base file is a load error and is propagated.
func (s *Store) BaseTemplate() (*model.Template, error) {
	if t := s.cached(cacheKeyBase); t != nil {
		return t, nil
	}

	path := filepath.Join(s.dir, baseDir, baseFile)
	t, err := s.loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading base template: %w", err)
	}
	s.put(cacheKeyBase, t)
	return t, nil
}

// CountryTemplate returns the template for a country code, or nil if no such
// template is installed.
func (s *Store) CountryTemplate(code string) (*model.Template, error) {
	return s.optionalTemplate("country_"+code, filepath.Join(s.dir, countriesDir, code+".json"))
}

// IndustryTemplate returns the template for an industry code, or nil if no
// such template is installed.
func (s *Store) IndustryTemplate(code string) (*model.Template, error) {
	return s.optionalTemplate("industry_"+code, filepath.Join(s.dir, industryDir, code+".json"))
}

func (s *Store) optionalTemplate(key, path string) (*model.Template, error) {
	if t := s.cached(key); t != nil {
		return t, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.log.Warn().Str("template", key).Str("path", path).Msg("template not installed")
		return nil, nil
	}

	t, err := s.loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", key, err)
	}
	s.put(key, t)
	return t, nil
}

// AvailableCountryTemplates lists installed country template codes. A
// directory read failure is non-fatal and yields an empty list.
func (s *Store) AvailableCountryTemplates() []string {
	return s.scan(filepath.Join(s.dir, countriesDir))
}

// AvailableIndustryTemplates lists installed industry template codes.
func (s *Store) AvailableIndustryTemplates() []string {
	return s.scan(filepath.Join(s.dir, industryDir))
}

// ClearCache drops all cached templates so the next access re-reads from
// disk. Used for hot-reload in development.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*model.Template)
}

func (s *Store) scan(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("dir", dir).Msg("listing templates failed")
		}
		return nil
	}

	var codes []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		codes = append(codes, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(codes)
	return codes
}

func (s *Store) loadFile(path string) (*model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var t model.Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &t, nil
}

func (s *Store) cached(key string) *model.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

func (s *Store) put(key string, t *model.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = t
}
