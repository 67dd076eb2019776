package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.json
var localeFS embed.FS

// Translator renders localized event summaries and notification banners.
// The zero value is not usable; construct it with New.
type Translator struct {
	localizer *i18n.Localizer
	logger    *slog.Logger
}

// New builds a translator for the given language tag, falling back to
// English for languages without a locale file.
func New(lang string, logger *slog.Logger) (*Translator, error) {
	log := logger.With(slog.String(config.LogKeyComponent, config.CompI18n))

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, config.ExtJSON) {
			log.Debug(config.MsgLocaleSkip, slog.String(config.LogKeyFile, name))
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", name)); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		log.Debug(config.MsgLocaleLoaded, slog.String(config.LogKeyFile, name))
	}

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, lang, config.DefaultLanguage),
		logger:    log.With(slog.String(config.LogKeyLang, lang)),
	}, nil
}

// Summary renders a calendar event title. When the birth year is known the
// summary carries the age turning that day; age zero gets the birth wording.
func (t *Translator) Summary(name string, age int, yearKnown bool) string {
	switch {
	case !yearKnown:
		return t.localize(config.TKeyEvtSummary, map[string]any{"Name": name}, 0)
	case age == 0:
		return t.localize(config.TKeyEvtSummaryBirth, map[string]any{"Name": name}, 0)
	default:
		return t.localize(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age}, age)
	}
}

// NotificationThisMonth renders the dashboard banner for a month's birthday
// count. A zero count yields the quiet-month wording.
func (t *Translator) NotificationThisMonth(count int) string {
	if count == 0 {
		return t.localize(config.TKeyNotifNone, nil, 0)
	}
	return t.localize(config.TKeyNotifMonth, map[string]any{"Count": count}, count)
}

// NotificationToday renders the banner for today's birthday count.
func (t *Translator) NotificationToday(count int) string {
	if count == 0 {
		return t.localize(config.TKeyNotifNone, nil, 0)
	}
	return t.localize(config.TKeyNotifToday, map[string]any{"Count": count}, count)
}

func (t *Translator) localize(key string, data map[string]any, plural int) string {
	cfg := &i18n.LocalizeConfig{MessageID: key, TemplateData: data}
	if plural > 0 {
		cfg.PluralCount = plural
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		t.logger.Warn(config.MsgTransMissing,
			slog.String(config.LogKeyKey, key),
			slog.String(config.LogKeyError, err.Error()))
		return key
	}
	return msg
}
