package sqlstore

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/agentic-social/agentic-social/app/store"
	"github.com/agentic-social/agentic-social/pkg/register"
	"github.com/agentic-social/agentic-social/pkg/sqlstore"
	"github.com/agentic-social/agentic-social/pkg/types"
)

//go:embed schema
var schemaFiles embed.FS

type Provider struct {
	*sqlstore.SqlProvider
	stores *Stores
}

type Stores struct {
	store.ShareHistoryStore
	store.PostShareMetaStore
	store.SettingsStore
}

type RegisterKey struct{}

// New 建立连接并初始化所有注册过的 store
func New(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) (*Provider, error) {
	sp, err := sqlstore.SetupProvider(m, s...)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		SqlProvider: sp,
		stores:      &Stores{},
	}
	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(p)
	}
	return p, nil
}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) *Provider {
	p, err := New(m, s...)
	if err != nil {
		panic(err)
	}
	return p
}

// Install 按文件名顺序执行当前驱动下尚未执行过的建表文件
func (p *Provider) Install() error {
	if err := p.ensureMigrationTable(); err != nil {
		return err
	}

	dir := path.Join("schema", p.Driver())
	files, err := fs.ReadDir(schemaFiles, dir)
	if err != nil {
		return fmt.Errorf("no schema for driver %s: %w", p.Driver(), err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		executed, err := p.isFileExecuted(file.Name())
		if err != nil {
			return err
		}
		if executed {
			continue
		}

		raw, err := schemaFiles.ReadFile(path.Join(dir, file.Name()))
		if err != nil {
			return err
		}
		if _, err = p.GetMaster().Exec(string(raw)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file.Name(), err)
		}
		if err = p.markFileExecuted(file.Name()); err != nil {
			return err
		}
		slog.Debug("schema file executed", slog.String("driver", p.Driver()), slog.String("file", file.Name()))
	}
	return nil
}

func (p *Provider) migrationTable() string {
	return types.TABLE_PREFIX + "schema_migrations"
}

func (p *Provider) ensureMigrationTable() error {
	_, err := p.GetMaster().Exec(`
CREATE TABLE IF NOT EXISTS ` + p.migrationTable() + ` (
    filename VARCHAR(255) PRIMARY KEY,
    executed_at BIGINT NOT NULL
);`)
	return err
}

func (p *Provider) isFileExecuted(filename string) (bool, error) {
	query, args, err := p.Builder().Select("COUNT(*)").From(p.migrationTable()).Where("filename = ?", filename).ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	var count int
	if err = p.GetReplica().Get(&count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *Provider) markFileExecuted(filename string) error {
	query, args, err := p.Builder().Insert(p.migrationTable()).
		Columns("filename", "executed_at").
		Values(filename, time.Now().Unix()).
		Suffix("ON CONFLICT (filename) DO NOTHING").
		ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	_, err = p.GetMaster().Exec(query, args...)
	return err
}

func (p *Provider) ShareHistoryStore() store.ShareHistoryStore {
	return p.stores.ShareHistoryStore
}

func (p *Provider) PostShareMetaStore() store.PostShareMetaStore {
	return p.stores.PostShareMetaStore
}

func (p *Provider) SettingsStore() store.SettingsStore {
	return p.stores.SettingsStore
}
