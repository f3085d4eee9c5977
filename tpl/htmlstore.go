package tpl

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const FileSuffix = ".gohtml"

type HTMLTemplateStore struct {
	Base     map[string]*template.Template // each file → one template
	Combined map[string]*template.Template // composed templates
	Funcs    template.FuncMap              // set before loading

	sources map[string]string
	logger  *zap.Logger
}

func NewHTMLTemplateStore(logger *zap.Logger) *HTMLTemplateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLTemplateStore{
		Base:     make(map[string]*template.Template),
		Combined: make(map[string]*template.Template),
		Funcs:    template.FuncMap{},
		sources:  make(map[string]string),
		logger:   logger.Named("tpl"),
	}
}

// LoadBaseTemplates loads every template file under the directory tplRoot
func (s *HTMLTemplateStore) LoadBaseTemplates(tplRoot string) error {
	return s.LoadFS(os.DirFS(tplRoot), ".")
}

// LoadFS loads every *.gohtml below root in fsys. The key of a template is its
// slash path relative to root without the suffix.
func (s *HTMLTemplateStore) LoadFS(fsys fs.FS, root string) error {
	loaded := 0
	err := fs.WalkDir( // Pre-order Depth-first Traversal
		fsys,
		root,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			// Skip Hidden Files & Hidden Directories
			if strings.HasPrefix(name, ".") && p != root {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(p, FileSuffix) {
				return nil
			}
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			if !utf8.Valid(data) {
				return fmt.Errorf("file %s is not valid UTF-8", p)
			}
			rel := strings.TrimPrefix(p, path.Clean(root)+"/")
			key := strings.TrimSuffix(rel, FileSuffix)
			if _, exists := s.Base[key]; exists {
				return fmt.Errorf("duplicate template key detected: %s (file=%s)", key, p)
			}
			t, err := template.New(key).Funcs(s.Funcs).Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse error in %s: %w", p, err)
			}
			s.Base[key] = t
			s.sources[key] = string(data)
			loaded++
			return nil
		},
	)
	if err != nil {
		return err
	}
	s.logger.Debug("templates loaded", zap.Int("count", loaded), zap.String("root", root))
	return nil
}

// Combine parses the sources of baseKeys into one template set stored under key.
// Executing the result runs the first base template; the others supply definitions.
func (s *HTMLTemplateStore) Combine(key string, baseKeys ...string) (*template.Template, error) {
	if len(baseKeys) == 0 {
		return nil, fmt.Errorf("combine %s: no base templates", key)
	}
	var t *template.Template
	for _, bk := range baseKeys {
		src, ok := s.sources[bk]
		if !ok {
			return nil, fmt.Errorf("combine %s: unknown base template %s", key, bk)
		}
		if t == nil {
			t = template.New(bk).Funcs(s.Funcs)
		} else {
			t = t.New(bk)
		}
		if _, err := t.Parse(src); err != nil {
			return nil, fmt.Errorf("combine %s: %w", key, err)
		}
	}
	t = t.Lookup(baseKeys[0])
	s.Combined[key] = t
	return t, nil
}

// Get prefers combined templates over base ones
func (s *HTMLTemplateStore) Get(key string) (*template.Template, bool) {
	if t, ok := s.Combined[key]; ok {
		return t, true
	}
	t, ok := s.Base[key]
	return t, ok
}
