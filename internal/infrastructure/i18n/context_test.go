package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

type localeHolder string

func (l localeHolder) Locale() string { return string(l) }

func TestSwitcher_ForceUserLocale(t *testing.T) {
	b := newTestBundle(t)
	s := NewSwitcher(b, logger.NewNop())

	base := WithLocale(context.Background(), language.German)

	ctx, release := s.ForceUserLocale(base, localeHolder("fr"))
	got, ok := LocaleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, language.French, got)

	release()
	got, _ = LocaleFromContext(ctx)
	assert.Equal(t, language.German, got, "released scope falls back to the prior locale")

	got, _ = LocaleFromContext(base)
	assert.Equal(t, language.German, got)

	release()
}

func TestSwitcher_NestedScopes(t *testing.T) {
	b := newTestBundle(t)
	s := NewSwitcher(b, logger.NewNop())

	outer, releaseOuter := s.ForceUserLocale(context.Background(), localeHolder("de"))
	inner, releaseInner := s.ForceUserLocale(outer, localeHolder("fr"))

	assert.Equal(t, language.French, b.ActiveLocale(inner))
	releaseInner()
	assert.Equal(t, language.German, b.ActiveLocale(inner))
	releaseOuter()
	assert.Equal(t, language.English, b.ActiveLocale(outer), "no locale left, default applies")

	_, ok := LocaleFromContext(outer)
	assert.False(t, ok)
}

func TestSwitcher_NilOwnerUsesDefault(t *testing.T) {
	b := newTestBundle(t)
	ctx, release := NewSwitcher(b, logger.NewNop()).ForceUserLocale(context.Background(), nil)
	defer release()

	assert.Equal(t, language.English, b.ActiveLocale(ctx))
}
