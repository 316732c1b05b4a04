package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email         string    `gorm:"uniqueIndex" json:"email"`
	Name          string    `json:"name"`
	ExpoPushToken string    `json:"expo_push_token,omitempty"`
	ScanStats     string    `json:"scan_stats,omitempty" gorm:"type:text"`

	Timestamp
}
