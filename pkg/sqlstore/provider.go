package sqlstore

import (
	"context"
	"log/slog"
	"math/rand/v2"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const (
	DRIVER_POSTGRES = "postgres"
	DRIVER_SQLITE   = "sqlite"
)

type SqlCommons interface {
	GetTable(...interface{}) string
}

type ConnectConfig interface {
	DriverName() string
	FormatDSN() string
}

type SqlProvider struct {
	driver   string
	master   *sqlx.DB
	replicas []*sqlx.DB
}

func (s *SqlProvider) GetTxFromCtx(ctx context.Context) *sqlx.Tx {
	if driver, ok := ctx.Value(TransactionKey{}).(*sqlx.Tx); ok {
		return driver
	}
	return nil
}

func (s *SqlProvider) Driver() string {
	return s.driver
}

// Builder returns a squirrel builder with the driver's placeholder format.
func (s *SqlProvider) Builder() sq.StatementBuilderType {
	if s.driver == DRIVER_POSTGRES {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func (s *SqlProvider) GetMaster() *sqlx.DB {
	return s.master
}

func (s *SqlProvider) GetReplica() *sqlx.DB {
	return s.replicas[rand.IntN(len(s.replicas))]
}

type TransactionKey struct{}

func (s *SqlProvider) Transaction(ctx context.Context, next func(ctx context.Context) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Value(TransactionKey{}).(*sqlx.Tx); ok {
		return next(ctx)
	}

	tx, err := s.GetMaster().BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			slog.Error("Transaction rollbacked", slog.Any("recover", r))
			panic(r)
		}
		if err != nil {
			_ = tx.Rollback()
			slog.Error("Transaction rollbacked", slog.String("error", err.Error()))
		}
	}()

	if err = next(context.WithValue(ctx, TransactionKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit()
}

// 建立数据库连接
func (s *SqlProvider) initConnection(conf ConnectConfig) (*sqlx.DB, error) {
	engine, err := sqlx.Open(conf.DriverName(), conf.FormatDSN())
	if err != nil {
		return nil, err
	}

	if conf.DriverName() == DRIVER_SQLITE {
		// sqlite 只允许单写, 同时保证内存库在连接间共享
		engine.SetMaxOpenConns(1)
		if _, err = engine.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, err
		}
	}

	return engine, engine.Ping()
}

func MustSetupProvider(m ConnectConfig, s ...ConnectConfig) *SqlProvider {
	provider, err := SetupProvider(m, s...)
	if err != nil {
		panic(err)
	}
	return provider
}

func SetupProvider(m ConnectConfig, s ...ConnectConfig) (*SqlProvider, error) {
	provider := &SqlProvider{driver: m.DriverName()}

	engine, err := provider.initConnection(m)
	if err != nil {
		return nil, err
	}
	provider.master = engine

	for _, v := range s {
		slave, err := provider.initConnection(v)
		if err != nil {
			return nil, err
		}
		provider.replicas = append(provider.replicas, slave)
	}

	if len(provider.replicas) == 0 {
		provider.replicas = append(provider.replicas, engine)
	}

	return provider, nil
}

func (s *SqlProvider) Close() error {
	for _, r := range s.replicas {
		if r != s.master {
			_ = r.Close()
		}
	}
	return s.master.Close()
}
