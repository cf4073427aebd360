package i18n

import (
	"context"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

type localeKey struct{}

// localeScope is one acquisition of a locale. Once released, lookups
// through a context derived from it see the locale that was active before.
type localeScope struct {
	tag      language.Tag
	prior    language.Tag
	hadPrior bool
	released atomic.Bool
}

// WithLocale returns a context whose active locale is tag. It never expires;
// use a Switcher when the locale must be scoped.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	prior, ok := LocaleFromContext(ctx)
	return context.WithValue(ctx, localeKey{}, &localeScope{tag: tag, prior: prior, hadPrior: ok})
}

// LocaleFromContext returns the active locale, if any.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	scope, ok := ctx.Value(localeKey{}).(*localeScope)
	if !ok {
		return language.Und, false
	}
	if scope.released.Load() {
		return scope.prior, scope.hadPrior
	}
	return scope.tag, true
}

// LocaleOwner is anything carrying a locale preference, typically a user.
type LocaleOwner interface {
	Locale() string
}

// Switcher forces the locale of a user for the extent of an operation.
// The returned release func must be called on every exit path, usually
// with defer; it is idempotent.
type Switcher interface {
	ForceUserLocale(ctx context.Context, owner LocaleOwner) (context.Context, func())
}

type contextSwitcher struct {
	bundle *Bundle
	logger logger.Interface
}

// NewSwitcher returns a Switcher that carries the locale on the context, so
// concurrent requests never observe each other's locale.
func NewSwitcher(bundle *Bundle, logger logger.Interface) Switcher {
	return &contextSwitcher{bundle: bundle, logger: logger}
}

func (s *contextSwitcher) ForceUserLocale(ctx context.Context, owner LocaleOwner) (context.Context, func()) {
	preferred := ""
	if owner != nil {
		preferred = owner.Locale()
	}
	tag := s.bundle.Resolve(preferred)
	s.logger.Debugw("forcing user locale", "preferred", preferred, "locale", tag.String())

	prior, hadPrior := LocaleFromContext(ctx)
	scope := &localeScope{tag: tag, prior: prior, hadPrior: hadPrior}
	return context.WithValue(ctx, localeKey{}, scope), func() {
		scope.released.Store(true)
	}
}

// ActiveLocale returns the context locale or the bundle default.
func (b *Bundle) ActiveLocale(ctx context.Context) language.Tag {
	if tag, ok := LocaleFromContext(ctx); ok {
		return tag
	}
	return b.fallback
}
