package core

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/agentic-social/agentic-social/pkg/sqlstore"
	"github.com/agentic-social/agentic-social/pkg/types"
)

const ENV_PREFIX = "AGENTIC_SOCIAL_"

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := DefaultConfig()
	if err = toml.Unmarshal(raw, &conf); err != nil {
		panic(err)
	}
	conf.applyDefaults()
	return conf
}

func LoadBaseConfigFromENV() CoreConfig {
	c := DefaultConfig()
	c.FromENV()
	c.applyDefaults()
	return c
}

type CoreConfig struct {
	Addr     string          `toml:"addr"`
	Log      Log             `toml:"log"`
	Database DatabaseConfig  `toml:"database"`
	Redis    RedisConfig     `toml:"redis"`
	History  HistoryConfig   `toml:"history"`
	Content  ContentConfig   `toml:"content"`
	Summary  SummaryConfig   `toml:"summary"`
	Sharing  SharingConfig   `toml:"sharing"`
	Workflow WorkflowConfig  `toml:"workflow"`
	Security Security        `toml:"security"`
	Limit    RateLimitConfig `toml:"limit"`
}

func DefaultConfig() CoreConfig {
	return CoreConfig{
		Addr: ":33033",
		Database: DatabaseConfig{
			Driver: sqlstore.DRIVER_SQLITE,
			DSN:    "file:agentic_social.db",
		},
		History: HistoryConfig{
			Driver:     HISTORY_DRIVER_SQL,
			MaxEntries: types.SHARE_LOG_MAX_ENTRIES,
			PageSize:   types.DEFAULT_PAGE_SIZE,
		},
		Content: ContentConfig{
			Driver:  CONTENT_DRIVER_WORDPRESS,
			Timeout: 10,
		},
		Summary: SummaryConfig{
			DefaultLength:  types.SUMMARY_LENGTH_DEFAULT,
			LinkedInLength: types.SUMMARY_LENGTH_LINKEDIN,
			TwitterLength:  types.SUMMARY_LENGTH_TWITTER,
		},
		Sharing: SharingConfig{
			UTMSource:   "linkedin",
			UTMMedium:   "social",
			UTMCampaign: "agentic_social",
			MaxHashtags: 3,
		},
		Workflow: WorkflowConfig{
			RunTTL:          1800,
			LinkedInFeedURL: types.LINKEDIN_FEED_URL,
		},
		Limit: RateLimitConfig{
			SummaryPerMinute: 30,
		},
	}
}

// applyDefaults 补齐被配置文件显式置零的值
func (c *CoreConfig) applyDefaults() {
	def := DefaultConfig()
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.History.Driver == "" {
		c.History.Driver = def.History.Driver
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = def.History.MaxEntries
	}
	if c.History.PageSize <= 0 {
		c.History.PageSize = def.History.PageSize
	}
	if c.Summary.DefaultLength <= 0 {
		c.Summary.DefaultLength = def.Summary.DefaultLength
	}
	if c.Summary.LinkedInLength <= 0 {
		c.Summary.LinkedInLength = def.Summary.LinkedInLength
	}
	if c.Summary.TwitterLength <= 0 {
		c.Summary.TwitterLength = def.Summary.TwitterLength
	}
	if c.Workflow.RunTTL <= 0 {
		c.Workflow.RunTTL = def.Workflow.RunTTL
	}
	if c.Workflow.LinkedInFeedURL == "" {
		c.Workflow.LinkedInFeedURL = def.Workflow.LinkedInFeedURL
	}
	if c.Limit.SummaryPerMinute <= 0 {
		c.Limit.SummaryPerMinute = def.Limit.SummaryPerMinute
	}
	if c.Content.Timeout <= 0 {
		c.Content.Timeout = def.Content.Timeout
	}
}

func (c *CoreConfig) FromENV() {
	setString(&c.Addr, "SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Database.FromENV()
	c.Redis.FromENV()
	c.History.FromENV()
	c.Content.FromENV()
	setInt(&c.Summary.Seed, "SUMMARY_SEED")
	setString(&c.Workflow.LinkedInFeedURL, "LINKEDIN_FEED_URL")
	setInt(&c.Workflow.RunTTL, "WORKFLOW_RUN_TTL")
	if v := os.Getenv(ENV_PREFIX + "SHARING_TRANSFORMS"); v != "" {
		c.Sharing.Transforms = strings.Split(v, ",")
	}
	setString(&c.Security.JWTSecret, "JWT_SECRET")
	setInt(&c.Limit.SummaryPerMinute, "LIMIT_SUMMARY_PER_MINUTE")
}

func setString(target *string, key string) {
	if v := os.Getenv(ENV_PREFIX + key); v != "" {
		*target = v
	}
}

func setInt[T ~int | ~int64 | ~uint64](target *T, key string) {
	if v := os.Getenv(ENV_PREFIX + key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			*target = T(i)
		}
	}
}

type DatabaseConfig struct {
	Driver string `toml:"driver"` // sqlite | postgres
	DSN    string `toml:"dsn"`
}

func (d *DatabaseConfig) FromENV() {
	setString(&d.Driver, "DATABASE_DRIVER")
	setString(&d.DSN, "DATABASE_DSN")
}

func (d DatabaseConfig) DriverName() string {
	return d.Driver
}

func (d DatabaseConfig) FormatDSN() string {
	return d.DSN
}

type RedisConfig struct {
	Addr      string `toml:"addr"`     // Redis地址，格式: host:port, 为空时不连接
	Password  string `toml:"password"` // Redis密码
	DB        int    `toml:"db"`       // Redis数据库索引 (0-15)
	KeyPrefix string `toml:"key_prefix"`

	// 连接池配置
	PoolSize     int `toml:"pool_size"`     // 连接池大小，默认10
	DialTimeout  int `toml:"dial_timeout"`  // 连接超时(秒)，默认5
	ReadTimeout  int `toml:"read_timeout"`  // 读超时(秒)，默认3
	WriteTimeout int `toml:"write_timeout"` // 写超时(秒)，默认3
}

func (r *RedisConfig) FromENV() {
	setString(&r.Addr, "REDIS_ADDR")
	setString(&r.Password, "REDIS_PASSWORD")
	setInt(&r.DB, "REDIS_DB")
	setString(&r.KeyPrefix, "REDIS_KEY_PREFIX")
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}

const (
	HISTORY_DRIVER_SQL    = "sql"
	HISTORY_DRIVER_REDIS  = "redis"
	HISTORY_DRIVER_MEMORY = "memory"

	CONTENT_DRIVER_WORDPRESS = "wordpress"
	CONTENT_DRIVER_FILE      = "file"
)

type HistoryConfig struct {
	Driver     string `toml:"driver"` // sql | redis | memory
	MaxEntries int    `toml:"max_entries"`
	PageSize   uint64 `toml:"page_size"`
}

func (h *HistoryConfig) FromENV() {
	setString(&h.Driver, "HISTORY_DRIVER")
	setInt(&h.MaxEntries, "HISTORY_MAX_ENTRIES")
	setInt(&h.PageSize, "HISTORY_PAGE_SIZE")
}

type ContentConfig struct {
	Driver      string `toml:"driver"` // wordpress | file
	BaseURL     string `toml:"base_url"`
	Username    string `toml:"username"`
	AppPassword string `toml:"app_password"`
	Timeout     int    `toml:"timeout"` // 秒
	Path        string `toml:"path"`    // driver = file 时的 yaml 路径
}

func (c *ContentConfig) FromENV() {
	setString(&c.Driver, "CONTENT_DRIVER")
	setString(&c.BaseURL, "CONTENT_BASE_URL")
	setString(&c.Username, "CONTENT_USERNAME")
	setString(&c.AppPassword, "CONTENT_APP_PASSWORD")
	setInt(&c.Timeout, "CONTENT_TIMEOUT")
	setString(&c.Path, "CONTENT_PATH")
}

type SummaryConfig struct {
	Seed           uint64 `toml:"seed"` // 0 表示不固定随机源
	DefaultLength  int    `toml:"default_length"`
	LinkedInLength int    `toml:"linkedin_length"`
	TwitterLength  int    `toml:"twitter_length"`
}

type SharingConfig struct {
	Transforms  []string `toml:"transforms"`
	UTMSource   string   `toml:"utm_source"`
	UTMMedium   string   `toml:"utm_medium"`
	UTMCampaign string   `toml:"utm_campaign"`
	MaxHashtags int      `toml:"max_hashtags"`
}

type WorkflowConfig struct {
	RunTTL          int    `toml:"run_ttl"` // 秒
	LinkedInFeedURL string `toml:"linkedin_feed_url"`
}

func (w WorkflowConfig) RunTTLDuration() time.Duration {
	return seconds(w.RunTTL, 1800)
}

type Security struct {
	JWTSecret string `toml:"jwt_secret"`
}

type RateLimitConfig struct {
	SummaryPerMinute int `toml:"summary_per_minute"`
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	setString(&l.Level, "LOG_LEVEL")
	setString(&l.Path, "LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Validate 启动前检查互相依赖的配置项
func (c CoreConfig) Validate() error {
	switch c.History.Driver {
	case HISTORY_DRIVER_SQL, HISTORY_DRIVER_MEMORY:
	case HISTORY_DRIVER_REDIS:
		if c.Redis.Addr == "" {
			return fmt.Errorf("history driver redis requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown history driver %q", c.History.Driver)
	}

	switch c.Content.Driver {
	case CONTENT_DRIVER_WORDPRESS:
		if c.Content.BaseURL == "" {
			return fmt.Errorf("content driver wordpress requires content.base_url")
		}
	case CONTENT_DRIVER_FILE:
		if c.Content.Path == "" {
			return fmt.Errorf("content driver file requires content.path")
		}
	default:
		return fmt.Errorf("unknown content driver %q", c.Content.Driver)
	}

	switch c.Database.Driver {
	case sqlstore.DRIVER_SQLITE, sqlstore.DRIVER_POSTGRES:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}
