// Package i18n resolves user locales against the shipped translations and
// provides per-locale printers for rendering emails.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

const defaultDateLayout = "2006-01-02"

// localeFile is the on-disk shape of locales/<lang>.yaml.
type localeFile struct {
	Locale     string            `yaml:"locale"`
	DateLayout string            `yaml:"date_layout"`
	Messages   map[string]string `yaml:"messages"`
}

// Bundle holds every loaded translation. It is immutable after NewBundle
// and safe for concurrent use.
type Bundle struct {
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
	catalog   catalog.Catalog
	layouts   map[language.Tag]string
}

// NewBundle loads the embedded locales plus any *.yaml files in extraDir.
// Files in extraDir add languages or override individual messages.
func NewBundle(defaultLocale, extraDir string, log logger.Interface) (*Bundle, error) {
	fallback, err := ParseLocale(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}

	files := make(map[language.Tag]*localeFile)
	if err := loadLocaleFiles(embeddedLocales, "locales", files); err != nil {
		return nil, err
	}
	if extraDir != "" {
		if _, err := os.Stat(extraDir); err != nil {
			log.Warnw("locales directory not found, using embedded translations only", "path", extraDir)
		} else if err := loadLocaleFiles(os.DirFS(extraDir), ".", files); err != nil {
			return nil, err
		}
	}

	return buildBundle(fallback, files, log)
}

func loadLocaleFiles(fsys fs.FS, dir string, into map[language.Tag]*localeFile) error {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("failed to list locale files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", name, err)
		}

		var lf localeFile
		if err := yaml.Unmarshal(data, &lf); err != nil {
			return fmt.Errorf("failed to parse locale file %s: %w", name, err)
		}
		if lf.Locale == "" {
			lf.Locale = strings.TrimSuffix(path.Base(name), ".yaml")
		}

		tag, err := ParseLocale(lf.Locale)
		if err != nil {
			return fmt.Errorf("locale file %s: %w", name, err)
		}

		existing, ok := into[tag]
		if !ok {
			into[tag] = &lf
			continue
		}
		if lf.DateLayout != "" {
			existing.DateLayout = lf.DateLayout
		}
		if existing.Messages == nil {
			existing.Messages = make(map[string]string)
		}
		for k, v := range lf.Messages {
			existing.Messages[k] = v
		}
	}
	return nil
}

func buildBundle(fallback language.Tag, files map[language.Tag]*localeFile, log logger.Interface) (*Bundle, error) {
	builder := catalog.NewBuilder(catalog.Fallback(fallback))
	layouts := make(map[language.Tag]string, len(files))

	// The fallback must come first: language.NewMatcher treats the first
	// tag as the default.
	supported := []language.Tag{fallback}
	others := make([]language.Tag, 0, len(files))
	for tag := range files {
		if tag != fallback {
			others = append(others, tag)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	supported = append(supported, others...)

	for tag, lf := range files {
		layout := lf.DateLayout
		if layout == "" {
			layout = defaultDateLayout
		}
		layouts[tag] = layout

		for key, msg := range lf.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("failed to add %s message %q: %w", tag, key, err)
			}
		}
	}

	log.Infow("translations loaded", "languages", len(supported), "default", fallback.String())

	return &Bundle{
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		catalog:   builder,
		layouts:   layouts,
	}, nil
}

// ParseLocale accepts both BCP 47 ("en-GB") and POSIX style ("en_GB") names.
func ParseLocale(s string) (language.Tag, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return language.Und, fmt.Errorf("empty locale")
	}
	return language.Parse(s)
}

// Default returns the site default language.
func (b *Bundle) Default() language.Tag {
	return b.fallback
}

// Languages returns the supported languages, default first.
func (b *Bundle) Languages() []language.Tag {
	out := make([]language.Tag, len(b.supported))
	copy(out, b.supported)
	return out
}

// Resolve maps a stored user preference onto the closest supported
// language. Empty or unparseable preferences resolve to the default.
func (b *Bundle) Resolve(locale string) language.Tag {
	if strings.TrimSpace(locale) == "" {
		return b.fallback
	}
	tag, err := ParseLocale(locale)
	if err != nil {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tag)
	if conf == language.No {
		return b.fallback
	}
	return b.supported[idx]
}

// Printer returns a message printer bound to tag.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(b.catalog))
}

// FormatDate formats t with the layout configured for tag.
func (b *Bundle) FormatDate(tag language.Tag, t time.Time) string {
	layout, ok := b.layouts[tag]
	if !ok {
		layout = b.layouts[b.fallback]
	}
	if layout == "" {
		layout = defaultDateLayout
	}
	return t.Format(layout)
}
