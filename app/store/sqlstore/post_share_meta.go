package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/agentic-social/agentic-social/pkg/register"
	"github.com/agentic-social/agentic-social/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.PostShareMetaStore = NewPostShareMetaStore(provider)
	})
}

func NewPostShareMetaStore(provider SqlProviderAchieve) *PostShareMetaStore {
	repo := &PostShareMetaStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_POST_SHARE_META)
	repo.SetAllColumns("post_id", "custom_message", "share_enabled", "updated_at")
	return repo
}

type PostShareMetaStore struct {
	CommonFields
}

// Get 没有记录时返回 nil, nil
func (s *PostShareMetaStore) Get(ctx context.Context, postID int64) (*types.PostShareMeta, error) {
	query, args, err := s.Builder().Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var meta types.PostShareMeta
	if err = s.GetReplica(ctx).Get(&meta, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

func (s *PostShareMetaStore) GetCustomMessage(ctx context.Context, postID int64) (string, error) {
	meta, err := s.Get(ctx, postID)
	if err != nil || meta == nil {
		return "", err
	}
	return meta.CustomMessage, nil
}

func (s *PostShareMetaStore) Upsert(ctx context.Context, data types.PostShareMeta) error {
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query, args, err := s.Builder().Insert(s.GetTable()).
		Columns("post_id", "custom_message", "share_enabled", "updated_at").
		Values(data.PostID, data.CustomMessage, data.ShareEnabled, data.UpdatedAt).
		Suffix(`ON CONFLICT (post_id) DO UPDATE SET
			custom_message = EXCLUDED.custom_message,
			share_enabled = EXCLUDED.share_enabled,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(query, args...)
	return err
}

func (s *PostShareMetaStore) Delete(ctx context.Context, postID int64) error {
	query, args, err := s.Builder().Delete(s.GetTable()).Where(sq.Eq{"post_id": postID}).ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	_, err = s.GetMaster(ctx).Exec(query, args...)
	return err
}

func (s *PostShareMetaStore) Clear(ctx context.Context) error {
	query, args, err := s.Builder().Delete(s.GetTable()).ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}
	_, err = s.GetMaster(ctx).Exec(query, args...)
	return err
}
