package types

// summary length budgets per platform
const (
	SUMMARY_LENGTH_DEFAULT  = 300
	SUMMARY_LENGTH_LINKEDIN = 1300
	SUMMARY_LENGTH_TWITTER  = 250

	// hard ceiling of a tweet, applied regardless of the caller supplied budget
	TWITTER_MAX_LENGTH = 280
)

const (
	// 分享记录保留条数
	SHARE_LOG_MAX_ENTRIES = 100

	LINKEDIN_FEED_URL = "https://www.linkedin.com/feed/"
)

// user roles issued by the host
const (
	ROLE_AUTHOR        = "author"
	ROLE_EDITOR        = "editor"
	ROLE_ADMINISTRATOR = "administrator"
)

const (
	PERMISSION_EDIT_POSTS     = "edit_posts"
	PERMISSION_MANAGE_OPTIONS = "manage_options"
)
