package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n loads the embedded locales and detects the available languages.
func (app *GrowthApp) SetupI18n() {
	bundle := i18n.NewBundle(language.Vietnamese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator from the language preference and
// pushes the new series labels to the engine.
func (app *GrowthApp) UpdateLocalizer() {
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	if lang == "" {
		lang = config.DefaultLanguage
	}
	if app.I18nBundle != nil {
		app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
	}

	app.engineMu.Lock()
	eng := app.engine
	app.engineMu.Unlock()
	if eng != nil {
		eng.SetLabels(app.SeriesLabel)
	}
}

// GetMsg translates key, returning the key itself when it is missing.
func (app *GrowthApp) GetMsg(key string) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key}, key)
}

// localize runs lc and returns fallback on any failure.
func (app *GrowthApp) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if app.Localizer == nil {
		return fallback
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}

// SeriesLabel is the engine.LabelFunc of the active language.
func (app *GrowthApp) SeriesLabel(k engine.SeriesKind) string {
	keys := map[engine.SeriesKind]string{
		engine.SeriesActual:     config.TKeySeriesActual,
		engine.SeriesPrediction: config.TKeySeriesPrediction,
		engine.SeriesStandard:   config.TKeySeriesStandard,
		engine.SeriesMin:        config.TKeySeriesMin,
		engine.SeriesMax:        config.TKeySeriesMax,
	}
	key, ok := keys[k]
	if !ok {
		return engine.DefaultLabels(k)
	}
	return app.localize(&i18n.LocalizeConfig{MessageID: key}, engine.DefaultLabels(k))
}

// MetricTitle returns the tab title of a metric.
func (app *GrowthApp) MetricTitle(m engine.Metric) string {
	switch m {
	case engine.MetricHeight:
		return app.GetMsg(config.TKeyMetricHeight)
	case engine.MetricWeight:
		return app.GetMsg(config.TKeyMetricWeight)
	case engine.MetricHeadCircumference:
		return app.GetMsg(config.TKeyMetricHead)
	case engine.MetricBMI:
		return app.GetMsg(config.TKeyMetricBMI)
	}
	return m.String()
}

// AxisTitle returns the x axis caption for unit.
func (app *GrowthApp) AxisTitle(unit engine.AxisUnit) string {
	if unit == engine.UnitYears {
		return app.GetMsg(config.TKeyAxisYears)
	}
	return app.GetMsg(config.TKeyAxisDays)
}

// AdvisoryText returns the user message of an advisory.
func (app *GrowthApp) AdvisoryText(a engine.Advisory) string {
	switch a {
	case engine.AdvisoryNotVIP:
		return app.GetMsg(config.TKeyAdvNotVIP)
	case engine.AdvisoryInsufficientReference:
		return app.GetMsg(config.TKeyAdvInsufficRef)
	case engine.AdvisoryInsufficientActual:
		return app.GetMsg(config.TKeyAdvInsufficData)
	}
	return a.String()
}

// GenderText returns the localized gender of a child.
func (app *GrowthApp) GenderText(g engine.Gender) string {
	if g == engine.GenderFemale {
		return app.GetMsg(config.TKeyGenderFemale)
	}
	return app.GetMsg(config.TKeyGenderMale)
}

// TooltipText formats the tooltip of one chart point.
func (app *GrowthApp) TooltipText(s engine.Series, p engine.SeriesPoint) string {
	fallback := fmt.Sprintf(config.FallbackTooltip, s.Label, p.AgeLabel, p.Value)
	return app.localize(&i18n.LocalizeConfig{
		MessageID: config.TKeyTooltipText,
		TemplateData: map[string]interface{}{
			"Series": s.Label,
			"Age":    p.AgeLabel,
			"Value":  fmt.Sprintf("%.1f", p.Value),
		},
	}, fallback)
}
