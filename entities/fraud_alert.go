package entities

import (
	"time"

	"github.com/google/uuid"
)

type FraudAlert struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ScanID     uuid.UUID  `gorm:"uniqueIndex" json:"scan_id"`
	UserID     uuid.UUID  `gorm:"index" json:"user_id"`
	Status     string     `json:"status"`   // "open", "investigating", "dismissed", "resolved"
	Severity   string     `json:"severity"` // "low", "medium", "high", "critical"
	Reason     string     `json:"reason"`
	Metadata   string     `json:"metadata,omitempty" gorm:"type:text"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Scan *Scan `gorm:"foreignKey:ScanID"`
	Timestamp
}
