package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/agentic-social/agentic-social/pkg/register"
	"github.com/agentic-social/agentic-social/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SettingsStore = NewSettingsStore(provider)
	})
}

func NewSettingsStore(provider SqlProviderAchieve) *SettingsStore {
	repo := &SettingsStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SETTINGS)
	repo.SetAllColumns("name", "value", "updated_at")
	return repo
}

// SettingsStore 插件配置, 每个选项一行, value 保存 JSON
type SettingsStore struct {
	CommonFields
}

type settingRow struct {
	Name      string `db:"name"`
	Value     string `db:"value"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r settingRow) setting() types.Setting {
	return types.Setting{
		Name:      r.Name,
		Value:     json.RawMessage(r.Value),
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *SettingsStore) Get(ctx context.Context, name string) (*types.Setting, error) {
	query, args, err := s.Builder().Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var row settingRow
	if err = s.GetReplica(ctx).Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	setting := row.setting()
	return &setting, nil
}

func (s *SettingsStore) List(ctx context.Context) ([]types.Setting, error) {
	query, args, err := s.Builder().Select(s.GetAllColumns()...).
		From(s.GetTable()).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var rows []settingRow
	if err = s.GetReplica(ctx).Select(&rows, query, args...); err != nil {
		return nil, err
	}

	list := make([]types.Setting, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.setting())
	}
	return list, nil
}

func (s *SettingsStore) Upsert(ctx context.Context, data types.Setting) error {
	return s.insert(ctx, data, `ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
}

// Seed 只写入还不存在的选项
func (s *SettingsStore) Seed(ctx context.Context, rows []types.Setting) error {
	if len(rows) == 0 {
		return nil
	}
	return s.provider.Transaction(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			if err := s.insert(ctx, row, "ON CONFLICT (name) DO NOTHING"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SettingsStore) insert(ctx context.Context, data types.Setting, onConflict string) error {
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query, args, err := s.Builder().Insert(s.GetTable()).
		Columns("name", "value", "updated_at").
		Values(data.Name, string(data.Value), data.UpdatedAt).
		Suffix(onConflict).
		ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(query, args...)
	return err
}

func (s *SettingsStore) Clear(ctx context.Context) error {
	query, args, err := s.Builder().Delete(s.GetTable()).ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	_, err = s.GetMaster(ctx).Exec(query, args...)
	return err
}
