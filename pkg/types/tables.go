package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "agentic_social_"

const (
	TABLE_SHARE_LOG       = TableName("share_log")
	TABLE_SHARE_LATEST    = TableName("share_latest")
	TABLE_POST_SHARE_META = TableName("post_share_meta")
	TABLE_SETTINGS        = TableName("settings")
)
