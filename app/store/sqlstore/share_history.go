package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/agentic-social/agentic-social/pkg/register"
	"github.com/agentic-social/agentic-social/pkg/sqlstore"
	"github.com/agentic-social/agentic-social/pkg/types"
)

// shareLogLockKey 用于 postgres 多实例之间串行化日志写入
const shareLogLockKey int64 = 0x5348415245

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ShareHistoryStore = NewShareHistoryStore(provider, types.SHARE_LOG_MAX_ENTRIES)
	})
}

func NewShareHistoryStore(provider SqlProviderAchieve, maxEntries int) *ShareHistoryStore {
	if maxEntries <= 0 {
		maxEntries = types.SHARE_LOG_MAX_ENTRIES
	}
	repo := &ShareHistoryStore{maxEntries: maxEntries}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SHARE_LOG)
	repo.SetAllColumns("id", "post_id", "platform", "status", "error", "snapshot", "created_at")
	repo.latestTable = types.TABLE_SHARE_LATEST.Name()
	return repo
}

// ShareHistoryStore 日志表只保留最近 maxEntries 条, latest 表按 (post_id, platform) 保存最后一次记录
type ShareHistoryStore struct {
	CommonFields
	latestTable string
	maxEntries  int
	mu          sync.Mutex
}

// SetMaxEntries 调整日志上限, 下一次写入时生效
func (s *ShareHistoryStore) SetMaxEntries(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.maxEntries = n
	}
}

type shareRow struct {
	types.ShareAttempt
	SnapshotJSON sql.NullString `db:"snapshot"`
}

func (r shareRow) attempt() (types.ShareAttempt, error) {
	a := r.ShareAttempt
	if r.SnapshotJSON.Valid && r.SnapshotJSON.String != "" {
		var snapshot types.SharingData
		if err := json.Unmarshal([]byte(r.SnapshotJSON.String), &snapshot); err != nil {
			return a, err
		}
		a.Snapshot = &snapshot
	}
	return a, nil
}

func encodeSnapshot(snapshot *types.SharingData) (sql.NullString, error) {
	if snapshot == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// Append 写日志、淘汰超出上限的旧记录、更新 latest, 三步在同一个事务里完成
func (s *ShareHistoryStore) Append(ctx context.Context, attempt *types.ShareAttempt) error {
	if attempt.CreatedAt == 0 {
		attempt.CreatedAt = time.Now().Unix()
	}
	snapshot, err := encodeSnapshot(attempt.Snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.provider.Transaction(ctx, func(ctx context.Context) error {
		if s.provider.Driver() == sqlstore.DRIVER_POSTGRES {
			if _, err := s.GetMaster(ctx).Exec("SELECT pg_advisory_xact_lock($1)", shareLogLockKey); err != nil {
				return err
			}
		}

		query, args, err := s.Builder().Insert(s.GetTable()).
			Columns("post_id", "platform", "status", "error", "snapshot", "created_at").
			Values(attempt.PostID, attempt.Platform, attempt.Status, attempt.Error, snapshot, attempt.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return ErrorSqlBuild(err)
		}

		var id int64
		if err = s.GetMaster(ctx).QueryRowx(query, args...).Scan(&id); err != nil {
			return err
		}

		if _, err = s.evict(ctx, s.maxEntries); err != nil {
			return err
		}

		query, args, err = s.Builder().Insert(s.latestTable).
			Columns("post_id", "platform", "entry_id", "status", "error", "snapshot", "created_at").
			Values(attempt.PostID, attempt.Platform, id, attempt.Status, attempt.Error, snapshot, attempt.CreatedAt).
			Suffix(`ON CONFLICT (post_id, platform) DO UPDATE SET
				entry_id = EXCLUDED.entry_id,
				status = EXCLUDED.status,
				error = EXCLUDED.error,
				snapshot = EXCLUDED.snapshot,
				created_at = EXCLUDED.created_at`).
			ToSql()
		if err != nil {
			return ErrorSqlBuild(err)
		}
		if _, err = s.GetMaster(ctx).Exec(query, args...); err != nil {
			return err
		}

		attempt.ID = id
		return nil
	})
}

func (s *ShareHistoryStore) evict(ctx context.Context, keep int) (int64, error) {
	query, args, err := s.Builder().Delete(s.GetTable()).
		Where(sq.Expr("id NOT IN (SELECT id FROM "+s.GetTable()+" ORDER BY id DESC LIMIT ?)", max(keep, 0))).
		ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	res, err := s.GetMaster(ctx).Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *ShareHistoryStore) latestColumns() []string {
	return []string{"entry_id AS id", "post_id", "platform", "status", "error", "snapshot", "created_at"}
}

func (s *ShareHistoryStore) Latest(ctx context.Context, postID int64, platform types.Platform) (*types.ShareAttempt, error) {
	query, args, err := s.Builder().Select(s.latestColumns()...).
		From(s.latestTable).
		Where(sq.Eq{"post_id": postID, "platform": platform}).
		ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var row shareRow
	if err = s.GetReplica(ctx).Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	a, err := row.attempt()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ShareHistoryStore) LatestByPost(ctx context.Context, postID int64) ([]types.ShareAttempt, error) {
	return s.list(ctx, s.Builder().Select(s.latestColumns()...).
		From(s.latestTable).
		Where(sq.Eq{"post_id": postID}).
		OrderBy("platform"))
}

func (s *ShareHistoryStore) Recent(ctx context.Context, limit, offset uint64) ([]types.ShareAttempt, error) {
	query := s.Builder().Select(s.GetAllColumns()...).
		From(s.GetTable()).
		OrderBy("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		if limit == 0 {
			// sqlite 不接受没有 LIMIT 的 OFFSET
			query = query.Limit(uint64(s.maxEntries) + offset)
		}
		query = query.Offset(offset)
	}
	return s.list(ctx, query)
}

func (s *ShareHistoryStore) list(ctx context.Context, query sq.SelectBuilder) ([]types.ShareAttempt, error) {
	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var rows []shareRow
	if err = s.GetReplica(ctx).Select(&rows, queryString, args...); err != nil {
		return nil, err
	}

	list := make([]types.ShareAttempt, 0, len(rows))
	for _, row := range rows {
		a, err := row.attempt()
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

func (s *ShareHistoryStore) Total(ctx context.Context) (int64, error) {
	query, args, err := s.Builder().Select("COUNT(*)").From(s.GetTable()).ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var total int64
	if err = s.GetReplica(ctx).Get(&total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ShareHistoryStore) Stats(ctx context.Context) (types.ShareStats, error) {
	stats := types.NewShareStats()
	query, args, err := s.Builder().Select("status", "platform", "COUNT(*) AS cnt").
		From(s.GetTable()).
		GroupBy("status", "platform").
		ToSql()
	if err != nil {
		return stats, ErrorSqlBuild(err)
	}

	var rows []struct {
		Status   types.ShareStatus `db:"status"`
		Platform types.Platform    `db:"platform"`
		Count    int64             `db:"cnt"`
	}
	if err = s.GetReplica(ctx).Select(&rows, query, args...); err != nil {
		return stats, err
	}
	for _, row := range rows {
		stats.Add(row.Status, row.Platform, row.Count)
	}
	return stats, nil
}

// Trim 只裁剪日志, latest 不受影响
func (s *ShareHistoryStore) Trim(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evict(ctx, keep)
}

func (s *ShareHistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.provider.Transaction(ctx, func(ctx context.Context) error {
		for _, table := range []string{s.GetTable(), s.latestTable} {
			query, args, err := s.Builder().Delete(table).ToSql()
			if err != nil {
				return ErrorSqlBuild(err)
			}
			if _, err = s.GetMaster(ctx).Exec(query, args...); err != nil {
				return err
			}
		}
		return nil
	})
}
