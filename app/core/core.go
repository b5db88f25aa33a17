package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/agentic-social/agentic-social/app/core/srv"
	"github.com/agentic-social/agentic-social/app/store"
	"github.com/agentic-social/agentic-social/app/store/contentstore"
	"github.com/agentic-social/agentic-social/app/store/redisstore"
	"github.com/agentic-social/agentic-social/app/store/sqlstore"
	"github.com/agentic-social/agentic-social/pkg/sharelog"
	"github.com/agentic-social/agentic-social/pkg/sharing"
	"github.com/agentic-social/agentic-social/pkg/summary"
	"github.com/agentic-social/agentic-social/pkg/types"
	"github.com/agentic-social/agentic-social/pkg/utils"
	"github.com/agentic-social/agentic-social/pkg/workflow"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	sql     *sqlstore.Provider
	redis   redis.UniversalClient
	history store.ShareHistoryStore
	posts   store.PostStore

	httpEngine *gin.Engine
	metrics    *Metrics
	limiters   cmap.ConcurrentMap[string, *rate.Limiter]
}

type Option func(c *Core)

// WithPostStore 替换配置中的内容来源
func WithPostStore(posts store.PostStore) Option {
	return func(c *Core) {
		c.posts = posts
	}
}

func setupLogger(cfg Log) {
	var writer io.Writer = os.Stdout
	if cfg.Path != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28,   //days
			Compress:   true, // disabled by default
		}
	}
	l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(l)
}

func MustSetupCore(cfg CoreConfig, opts ...Option) *Core {
	core, err := SetupCore(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return core
}

func SetupCore(cfg CoreConfig, opts ...Option) (*Core, error) {
	setupLogger(cfg.Log)
	utils.SetupIDWorker(1)

	core := &Core{
		cfg:        cfg,
		httpEngine: gin.New(),
		metrics:    NewMetrics("agentic_social", "core", prometheus.NewRegistry()),
		limiters:   cmap.New[*rate.Limiter](),
	}
	for _, opt := range opts {
		opt(core)
	}

	if core.posts == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	if err := setupSqlStore(core); err != nil {
		return nil, err
	}
	if err := setupRedis(core); err != nil {
		return nil, err
	}
	if err := setupHistory(core); err != nil {
		return nil, err
	}
	if err := setupContent(core); err != nil {
		return nil, err
	}
	if err := setupSrv(core); err != nil {
		return nil, err
	}
	return core, nil
}

func setupSqlStore(core *Core) error {
	p, err := sqlstore.New(core.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect %s database: %w", core.cfg.Database.Driver, err)
	}
	// 执行数据库表初始化
	if err = p.Install(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = p.SettingsStore().Seed(ctx, types.DefaultSettings().Rows()); err != nil {
		return err
	}

	core.sql = p
	slog.Debug("sql store ready", slog.String("driver", p.Driver()))
	return nil
}

func setupRedis(core *Core) error {
	cfg := core.cfg.Redis
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{cfg.Addr},
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  seconds(cfg.DialTimeout, 5),
		ReadTimeout:  seconds(cfg.ReadTimeout, 3),
		WriteTimeout: seconds(cfg.WriteTimeout, 3),
	})

	ctx, cancel := context.WithTimeout(context.Background(), seconds(cfg.DialTimeout, 5))
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect redis %s: %w", cfg.Addr, err)
	}
	core.redis = client
	return nil
}

func setupHistory(core *Core) error {
	cfg := core.cfg.History
	switch cfg.Driver {
	case HISTORY_DRIVER_MEMORY:
		core.history = sharelog.NewMemoryStore(cfg.MaxEntries)
	case HISTORY_DRIVER_REDIS:
		if core.redis == nil {
			return fmt.Errorf("history driver redis requires redis.addr")
		}
		core.history = redisstore.NewShareHistoryStore(core.redis, core.cfg.Redis.KeyPrefix, cfg.MaxEntries)
	default:
		core.history = sqlstore.NewShareHistoryStore(core.sql, cfg.MaxEntries)
	}
	return nil
}

func setupContent(core *Core) error {
	if core.posts != nil {
		return nil
	}

	cfg := core.cfg.Content
	switch cfg.Driver {
	case CONTENT_DRIVER_FILE:
		s, err := contentstore.NewFileStore(cfg.Path)
		if err != nil {
			return err
		}
		core.posts = s
	default:
		s, err := contentstore.NewWordPressStore(contentstore.WordPressConfig{
			BaseURL:     cfg.BaseURL,
			Username:    cfg.Username,
			AppPassword: cfg.AppPassword,
			Timeout:     seconds(cfg.Timeout, 10),
		})
		if err != nil {
			return err
		}
		core.posts = s
	}
	return nil
}

func setupSrv(core *Core) error {
	var rnd summary.Rand
	if core.cfg.Summary.Seed != 0 {
		rnd = summary.NewSeededRand(core.cfg.Summary.Seed)
	}
	generator := summary.NewGenerator(rnd)

	sc := core.cfg.Sharing
	pipeline, err := sharing.BuildPipeline(sc.Transforms, sharing.TransformConfig{
		UTMSource:      sc.UTMSource,
		UTMMedium:      sc.UTMMedium,
		UTMCampaign:    sc.UTMCampaign,
		MaxHashtags:    sc.MaxHashtags,
		LinkedInLength: core.cfg.Summary.LinkedInLength,
	})
	if err != nil {
		return err
	}

	assembler := sharing.NewAssembler(core.posts, generator,
		sharing.WithLengths(sharing.Lengths{
			Default:  core.cfg.Summary.DefaultLength,
			LinkedIn: core.cfg.Summary.LinkedInLength,
			Twitter:  core.cfg.Summary.TwitterLength,
		}),
		sharing.WithTransforms(pipeline...),
		sharing.WithCustomMessages(core.sql.PostShareMetaStore()),
	)

	core.srv = srv.SetupSrvs(
		srv.ApplyGenerator(generator),
		srv.ApplyAssembler(assembler),
		srv.ApplySequencer(workflow.NewSequencer(core.history)),
		srv.ApplyRunRegistry(srv.NewRunRegistry(core.cfg.Workflow.RunTTLDuration())),
	)
	return nil
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.sql
}

func (s *Core) History() store.ShareHistoryStore {
	return s.history
}

func (s *Core) Posts() store.PostStore {
	return s.posts
}

func (s *Core) Redis() redis.UniversalClient {
	return s.redis
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

// Settings 读取插件配置, 缺失的选项使用默认值
func (s *Core) Settings(ctx context.Context) (types.Settings, error) {
	rows, err := s.sql.SettingsStore().List(ctx)
	if err != nil {
		return types.DefaultSettings(), err
	}
	return types.DefaultSettings().ApplyRows(rows).Sanitize(), nil
}

func (s *Core) Close() error {
	if s.redis != nil {
		s.redis.Close()
	}
	return s.sql.Close()
}
