package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/common/*.tmpl templates/auto/*.tmpl
var templateFS embed.FS

// registry holds parsed templates and provides thread-safe access.
type registry struct {
	mu        sync.RWMutex
	templates map[PromptID]*template.Template
}

// globalRegistry is the singleton registry instance.
//
//nolint:gochecknoglobals // singleton pattern for template registry
var globalRegistry = &registry{
	templates: make(map[PromptID]*template.Template),
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"hasContent": func(s string) bool {
			return strings.TrimSpace(s) != ""
		},
	}
}

// init loads all templates at startup.
//
//nolint:gochecknoinits // required to preload embedded templates at package initialization
func init() {
	if err := globalRegistry.loadAll(); err != nil {
		// Templates are embedded, so a failure here is a build bug
		panic(fmt.Sprintf("failed to load embedded templates: %v", err))
	}
}

// loadAll parses the common partials, then every other template with
// the partials attached.
func (r *registry) loadAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	common, err := loadCommon()
	if err != nil {
		return fmt.Errorf("loading common templates: %w", err)
	}

	return fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".tmpl") || strings.HasPrefix(p, "templates/common/") {
			return nil
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		// templates/auto/file_summary.tmpl -> auto/file_summary
		id := PromptID(strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".tmpl"))

		tmpl := template.New(string(id)).Funcs(funcMap()).Option("missingkey=error")
		for name, c := range common {
			if _, addErr := tmpl.AddParseTree(name, c.Tree); addErr != nil {
				return fmt.Errorf("adding common template %s: %w", name, addErr)
			}
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return fmt.Errorf("parsing template %s: %w", p, err)
		}

		r.templates[id] = tmpl
		return nil
	})
}

// loadCommon parses templates/common/*.tmpl as "common/<name>" partials.
func loadCommon() (map[string]*template.Template, error) {
	entries, err := templateFS.ReadDir("templates/common")
	if err != nil {
		return nil, err
	}

	common := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		p := path.Join("templates/common", entry.Name())
		content, err := templateFS.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading common template %s: %w", p, err)
		}
		name := "common/" + strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap()).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parsing common template %s: %w", p, err)
		}
		common[name] = tmpl
	}
	return common, nil
}

// get retrieves a template by ID.
func (r *registry) get(id PromptID) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrompt, id)
	}
	return tmpl, nil
}

// list returns all registered prompt IDs in sorted order.
func (r *registry) list() []PromptID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]PromptID, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
