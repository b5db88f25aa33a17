package v1

import (
	"context"

	"github.com/agentic-social/agentic-social/pkg/i18n"
	"github.com/agentic-social/agentic-social/pkg/security"
)

const (
	TOKEN_CONTEXT_KEY     = "__agentic.access_token"
	LANGUAGE_KEY          = "__agentic.accept_language"
	LOCALIZER_CONTEXT_KEY = "__agentic.localizer"
)

// InjectTokenClaim get user token claims from context
func InjectTokenClaim(ctx context.Context) (security.TokenClaims, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return val, ok
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

func InjectLocalizer(ctx context.Context) (i18n.Localizer, bool) {
	val, ok := ctx.Value(LOCALIZER_CONTEXT_KEY).(i18n.Localizer)
	return val, ok
}

// WithTokenClaim 用于非 http 场景(命令行, 测试)构造带身份的 context
func WithTokenClaim(ctx context.Context, claims security.TokenClaims) context.Context {
	return context.WithValue(ctx, TOKEN_CONTEXT_KEY, claims)
}

func WithLanguage(ctx context.Context, l i18n.Localizer, lang string) context.Context {
	ctx = context.WithValue(ctx, LOCALIZER_CONTEXT_KEY, l)
	return context.WithValue(ctx, LANGUAGE_KEY, lang)
}

// translate 渲染 i18n key, 没有 localizer 时原样返回
func translate(ctx context.Context, id string) string {
	l, ok := InjectLocalizer(ctx)
	if !ok {
		return id
	}
	lang, ok := InjectLanguage(ctx)
	if !ok {
		lang = i18n.DEFAULT_LANG
	}
	return l.Get(lang, id)
}

func translateWithData(ctx context.Context, id string, data map[string]interface{}) string {
	l, ok := InjectLocalizer(ctx)
	if !ok {
		return id
	}
	lang, ok := InjectLanguage(ctx)
	if !ok {
		lang = i18n.DEFAULT_LANG
	}
	return l.GetWithData(lang, id, data)
}
