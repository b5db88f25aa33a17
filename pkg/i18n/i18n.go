package i18n

import (
	"embed"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	//go:embed *.toml
	f embed.FS
)

// Localizer 持有已加载的语言包, 未加载的语言和未翻译的 key 原样返回 key
type Localizer struct {
	bundle   *i18n.Bundle
	registry map[string]*i18n.Localizer
	matcher  language.Matcher
	tags     []string
}

func NewLocalizer(languages ...string) Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	l := Localizer{
		bundle:   bundle,
		registry: make(map[string]*i18n.Localizer),
		tags:     []string{DEFAULT_LANG},
	}
	// the first supported tag is the matcher's fallback
	supported := []language.Tag{language.English}

	for _, lang := range languages {
		path := lang + ".toml"
		if _, err := bundle.LoadMessageFileFS(f, path); err != nil {
			slog.Error("Failed to load i18n message config", slog.String("error", err.Error()), slog.String("lang", lang), slog.String("file", path))
			continue
		}
		l.registry[lang] = i18n.NewLocalizer(bundle, lang)

		if lang == DEFAULT_LANG {
			continue
		}
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		l.tags = append(l.tags, lang)
	}
	l.matcher = language.NewMatcher(supported)
	return l
}

// Match picks the best loaded language for an Accept-Language header value.
func (l Localizer) Match(acceptLanguage string) string {
	if acceptLanguage == "" || l.matcher == nil {
		return DEFAULT_LANG
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DEFAULT_LANG
	}
	_, idx, _ := l.matcher.Match(tags...)
	return l.tags[idx]
}

func (l Localizer) Get(lang string, id string) string {
	return l.localize(lang, id, nil)
}

// GetWithData 渲染带模板参数的文案, 例如 {{.Platform}}
func (l Localizer) GetWithData(lang, id string, data map[string]interface{}) string {
	return l.localize(lang, id, data)
}

func (l Localizer) localize(lang, id string, data map[string]interface{}) string {
	localizer := l.registry[lang]
	if localizer == nil {
		return id
	}

	str, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    id,
			Other: id,
			One:   id,
		},
		TemplateData: data,
	})
	if err != nil {
		slog.Info("failed to get localizer message", slog.String("id", id), slog.String("lang", lang), slog.String("error", err.Error()))
		return id
	}
	return str
}
