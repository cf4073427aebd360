package template

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
	"time"

	"golang.org/x/text/language"

	"github.com/orris-inc/rbnotify/internal/infrastructure/i18n"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

//go:embed templates
var embeddedTemplates embed.FS

const (
	templatesRoot = "templates"
	baseTemplate  = "base.txt"

	// GlobalBaseURL is the data key holding the public site URL.
	GlobalBaseURL = "base_url"
)

var ErrTemplateNotFound = errors.New("email template not found")

// Module is a rendered email template. Listeners may modify it before the
// message is built.
type Module struct {
	Path    string
	Locale  language.Tag
	Subject string
	Body    string
	// HTML is an optional alternative body.
	HTML string
}

// Renderer renders a template by path using the locale active on ctx.
type Renderer interface {
	Render(ctx context.Context, path string, data map[string]any) (*Module, error)
}

// EmailTemplateLoader parses the email templates once and renders them per
// request. Templates must define "subject" and "body".
type EmailTemplateLoader struct {
	bundle      *i18n.Bundle
	overrideDir string
	globals     map[string]any
	logger      logger.Interface

	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewEmailTemplateLoader creates a loader. Files under overrideDir with the
// same relative path replace the embedded templates.
func NewEmailTemplateLoader(bundle *i18n.Bundle, overrideDir string, globals map[string]any, logger logger.Interface) *EmailTemplateLoader {
	if globals == nil {
		globals = map[string]any{}
	}
	return &EmailTemplateLoader{
		bundle:      bundle,
		overrideDir: overrideDir,
		globals:     globals,
		logger:      logger,
		templates:   make(map[string]*template.Template),
	}
}

// placeholderFuncs lets templates parse; Render swaps in locale-bound ones.
func placeholderFuncs() template.FuncMap {
	return template.FuncMap{
		"T":    func(key string, args ...any) string { return fmt.Sprintf(key, args...) },
		"date": func(t time.Time) string { return t.Format(time.DateOnly) },
	}
}

// Load parses every embedded template, applying overrides.
func (l *EmailTemplateLoader) Load() error {
	if l.overrideDir != "" {
		if _, err := os.Stat(l.overrideDir); os.IsNotExist(err) {
			l.logger.Warnw("templates directory not found, using embedded templates", "path", l.overrideDir)
			l.overrideDir = ""
		}
	}

	base, err := l.readTemplate(baseTemplate)
	if err != nil {
		return err
	}

	loaded := make(map[string]*template.Template)
	err = fs.WalkDir(embeddedTemplates, templatesRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".txt") {
			return nil
		}
		rel := strings.TrimPrefix(p, templatesRoot+"/")
		if rel == baseTemplate {
			return nil
		}

		content, err := l.readTemplate(rel)
		if err != nil {
			return err
		}

		tmpl, err := parse(rel, base, content)
		if err != nil {
			return err
		}
		loaded[rel] = tmpl
		l.logger.Debugw("loaded email template", "path", rel, "size", len(content))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}

	l.mu.Lock()
	l.templates = loaded
	l.mu.Unlock()

	l.logger.Infow("email templates loaded", "count", len(loaded))
	return nil
}

// readTemplate returns the override file if present, else the embedded one.
func (l *EmailTemplateLoader) readTemplate(rel string) (string, error) {
	if l.overrideDir != "" {
		content, err := os.ReadFile(filepath.Join(l.overrideDir, filepath.FromSlash(rel)))
		if err == nil {
			l.logger.Infow("using custom email template", "path", rel)
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			l.logger.Warnw("failed to read custom email template", "path", rel, "error", err)
		}
	}

	content, err := fs.ReadFile(embeddedTemplates, path.Join(templatesRoot, rel))
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", rel, err)
	}
	return string(content), nil
}

func parse(name, base, content string) (*template.Template, error) {
	tmpl := template.New(name).Funcs(placeholderFuncs()).Option("missingkey=error")
	if _, err := tmpl.Parse(base); err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}
	if _, err := tmpl.Parse(content); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	for _, block := range []string{"subject", "body"} {
		if tmpl.Lookup(block) == nil {
			return nil, fmt.Errorf("template %s does not define %q", name, block)
		}
	}
	return tmpl, nil
}

// Has reports whether a template is loaded for path.
func (l *EmailTemplateLoader) Has(p string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.templates[p]
	return ok
}

// Render executes the template at path with data plus the loader globals.
// data itself is not modified.
func (l *EmailTemplateLoader) Render(ctx context.Context, p string, data map[string]any) (*Module, error) {
	l.mu.RLock()
	tmpl, ok := l.templates[p]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, p)
	}

	tag := l.bundle.ActiveLocale(ctx)
	printer := l.bundle.Printer(tag)

	clone, err := tmpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone template %s: %w", p, err)
	}
	clone.Funcs(template.FuncMap{
		"T":    func(key string, args ...any) string { return printer.Sprintf(key, args...) },
		"date": func(t time.Time) string { return l.bundle.FormatDate(tag, t) },
	})

	vars := make(map[string]any, len(data)+len(l.globals))
	for k, v := range l.globals {
		vars[k] = v
	}
	for k, v := range data {
		vars[k] = v
	}

	subject, err := execute(clone, "subject", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render subject of %s: %w", p, err)
	}
	body, err := execute(clone, "body", vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render body of %s: %w", p, err)
	}

	return &Module{
		Path:    p,
		Locale:  tag,
		Subject: strings.Join(strings.Fields(subject), " "),
		Body:    strings.TrimSpace(body) + "\n",
	}, nil
}

func execute(tmpl *template.Template, name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
