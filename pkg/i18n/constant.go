package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"
	ERROR_INVALID_TOKEN     = "error.invalid.token"

	ERROR_POST_NOT_FOUND          = "error.post.notfound"
	ERROR_RUN_NOT_FOUND           = "error.run.notfound"
	ERROR_INVALID_STEP_TRANSITION = "error.run.invalid_transition"
	ERROR_NO_GUIDED_WORKFLOW      = "error.run.no_steps"
	ERROR_SHARE_DISABLED          = "error.share_disabled"
	ERROR_PLATFORM_DISABLED       = "error.platform_disabled"
	ERROR_INVALID_SHARING_DATA    = "error.invalid_sharing_data"
	ERROR_UNKNOWN_PLATFORM        = "error.unknown_platform"

	MESSAGE_SETTINGS_SAVED  = "message.settings.saved"
	MESSAGE_HISTORY_CLEARED = "message.history.cleared"
)
