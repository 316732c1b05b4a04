package entities

import (
	"time"

	"github.com/google/uuid"
)

type Scan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID  `gorm:"index" json:"user_id"`
	Bucket      string     `json:"bucket"`
	StoragePath string     `json:"storage_path"`
	Status      string     `json:"status"` // "pending", "processing", "complete", "failed"
	Metadata    string     `json:"metadata,omitempty" gorm:"type:text"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
