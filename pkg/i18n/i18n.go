package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed messages/*.json
var messagesFS embed.FS

// Supported locales
const (
	LocaleIndonesian = "id"
	LocaleEnglish    = "en"
	DefaultLocale    = LocaleIndonesian
)

// Context key for locale
type localeKey struct{}

var (
	messages     map[string]map[string]interface{}
	messagesOnce sync.Once

	// First entry is the matcher's fallback.
	supportedTags = []language.Tag{language.Indonesian, language.English}
	matcher       = language.NewMatcher(supportedTags)
)

// loadMessages loads all message files from embedded filesystem
func loadMessages() {
	messagesOnce.Do(func() {
		messages = make(map[string]map[string]interface{})

		for _, locale := range []string{LocaleIndonesian, LocaleEnglish} {
			data, err := messagesFS.ReadFile("messages/" + locale + ".json")
			if err != nil {
				continue
			}

			var msg map[string]interface{}
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}

			messages[locale] = msg
		}
	})
}

// IsSupported reports whether a catalog exists for locale.
func IsSupported(locale string) bool {
	return locale == LocaleIndonesian || locale == LocaleEnglish
}

// Localizer handles message localization
type Localizer struct {
	locale string
}

// NewLocalizer creates a new localizer for the given locale
func NewLocalizer(locale string) *Localizer {
	loadMessages()

	if !IsSupported(locale) {
		locale = DefaultLocale
	}

	return &Localizer{locale: locale}
}

// LocalizerFromContext creates a localizer from context
func LocalizerFromContext(ctx context.Context) *Localizer {
	return NewLocalizer(GetLocaleFromContext(ctx))
}

// T translates a message key with optional parameters
func (l *Localizer) T(key string, params ...map[string]string) string {
	loadMessages()

	msg := l.getMessage(key, l.locale)
	if msg == "" {
		msg = l.getMessage(key, DefaultLocale)
	}
	if msg == "" {
		return key
	}

	if len(params) > 0 {
		for k, v := range params[0] {
			msg = strings.ReplaceAll(msg, "{"+k+"}", v)
		}
	}

	return msg
}

// getMessage retrieves a nested message by dot-notation key
func (l *Localizer) getMessage(key string, locale string) string {
	current, ok := messages[locale]
	if !ok {
		return ""
	}

	parts := strings.Split(key, ".")
	for i, part := range parts {
		if i == len(parts)-1 {
			str, _ := current[part].(string)
			return str
		}

		nested, ok := current[part].(map[string]interface{})
		if !ok {
			return ""
		}
		current = nested
	}

	return ""
}

// GetLocale returns the current locale
func (l *Localizer) GetLocale() string {
	return l.locale
}

// Tag returns the language tag of the localizer's locale.
func (l *Localizer) Tag() language.Tag {
	return language.Make(l.locale)
}

// WithLocale adds locale to context
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// GetLocaleFromContext retrieves locale from context
func GetLocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(localeKey{}).(string); ok && locale != "" {
		return locale
	}
	return DefaultLocale
}

// ParseAcceptLanguage returns the supported locale that best matches an
// Accept-Language header, or fallback when nothing matches.
func ParseAcceptLanguage(header string, fallback string) string {
	if !IsSupported(fallback) {
		fallback = DefaultLocale
	}
	if header == "" {
		return fallback
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	base, _ := supportedTags[idx].Base()
	return base.String()
}

// Global convenience functions

// T translates using the default locale
func T(key string, params ...map[string]string) string {
	return NewLocalizer(DefaultLocale).T(key, params...)
}

// TWithLocale translates using the specified locale
func TWithLocale(locale, key string, params ...map[string]string) string {
	return NewLocalizer(locale).T(key, params...)
}

// TFromContext translates using locale from context
func TFromContext(ctx context.Context, key string, params ...map[string]string) string {
	return LocalizerFromContext(ctx).T(key, params...)
}
