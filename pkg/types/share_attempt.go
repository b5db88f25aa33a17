package types

type ShareStatus string

const (
	ShareStatusInitiated ShareStatus = "initiated"
	ShareStatusCompleted ShareStatus = "completed"
	ShareStatusFailed    ShareStatus = "failed"
)

func (s ShareStatus) Valid() bool {
	switch s {
	case ShareStatusInitiated, ShareStatusCompleted, ShareStatusFailed:
		return true
	}
	return false
}

// ShareAttempt 一条分享记录
type ShareAttempt struct {
	ID        int64        `json:"id,string" db:"id"`
	PostID    int64        `json:"post_id" db:"post_id"`
	Platform  Platform     `json:"platform" db:"platform"`
	Status    ShareStatus  `json:"status" db:"status"`
	Error     string       `json:"error,omitempty" db:"error"`
	Snapshot  *SharingData `json:"sharing_data,omitempty" db:"-"`
	CreatedAt int64        `json:"created_at" db:"created_at"`
}

// ShareStats aggregates the retained log for display.
type ShareStats struct {
	Total      int64                 `json:"total"`
	ByStatus   map[ShareStatus]int64 `json:"by_status"`
	ByPlatform map[Platform]int64    `json:"by_platform"`
}

func NewShareStats() ShareStats {
	return ShareStats{
		ByStatus:   make(map[ShareStatus]int64),
		ByPlatform: make(map[Platform]int64),
	}
}

// Add counts a single attempt.
func (s *ShareStats) Add(status ShareStatus, platform Platform, n int64) {
	s.Total += n
	s.ByStatus[status] += n
	s.ByPlatform[platform] += n
}
