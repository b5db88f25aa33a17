package core

import (
	"time"

	"golang.org/x/time/rate"
)

type LimitConfig struct {
	Limit int
	Every time.Duration
}

type LimitOption func(l *LimitConfig)

func WithLimit(limit int) LimitOption {
	return func(l *LimitConfig) {
		l.Limit = limit
	}
}

func WithRange(r time.Duration) LimitOption {
	return func(l *LimitConfig) {
		l.Every = r
	}
}

type Limiter interface {
	Allow() bool
}

// UseLimiter 按 method + key 复用限流器, 默认每分钟 60 次
func (s *Core) UseLimiter(key string, method string, opts ...LimitOption) Limiter {
	cfg := &LimitConfig{
		Limit: 60,
		Every: time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}

	return s.limiters.Upsert(method+":"+key, nil, func(exist bool, l *rate.Limiter, _ *rate.Limiter) *rate.Limiter {
		if exist {
			return l
		}
		return rate.NewLimiter(rate.Every(cfg.Every/time.Duration(cfg.Limit)), cfg.Limit)
	})
}
