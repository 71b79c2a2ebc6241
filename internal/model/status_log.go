package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FaultStatusLog struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	FaultID   uint         `gorm:"not null" json:"fault_id"`
	OldStatus *FaultStatus `gorm:"type:varchar(32)" json:"old_status"`
	NewStatus FaultStatus  `gorm:"type:varchar(32);not null" json:"new_status"`
	Note      string       `gorm:"type:text" json:"note"`
	ChangedBy *uuid.UUID   `gorm:"type:uuid" json:"changed_by"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (FaultStatusLog) TableName() string {
	return "fault_status_log"
}

func (l *FaultStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
