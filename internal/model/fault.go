package model

import "time"

type FaultCategory string

const (
	FaultCategoryCharging     FaultCategory = "CHARGING_FAILURE"
	FaultCategoryTask         FaultCategory = "TASK_EXECUTION_FAILURE"
	FaultCategoryObstacle     FaultCategory = "OBSTACLE_AVOIDANCE_ANOMALY"
	FaultCategoryLocalization FaultCategory = "LOCALIZATION_LOSS"
	FaultCategoryMechanical   FaultCategory = "MECHANICAL_FAULT"
	FaultCategoryOther        FaultCategory = "OTHER"
)

// FaultCategories is the closed category set in display order.
var FaultCategories = []FaultCategory{
	FaultCategoryCharging,
	FaultCategoryTask,
	FaultCategoryObstacle,
	FaultCategoryLocalization,
	FaultCategoryMechanical,
	FaultCategoryOther,
}

var categoryLabels = map[FaultCategory]string{
	FaultCategoryCharging:     "充电失败",
	FaultCategoryTask:         "任务执行失败",
	FaultCategoryObstacle:     "避障异常",
	FaultCategoryLocalization: "定位丢失",
	FaultCategoryMechanical:   "机械故障",
	FaultCategoryOther:        "其他",
}

func (c FaultCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c FaultCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

type FaultStatus string

const (
	FaultStatusPending    FaultStatus = "PENDING"
	FaultStatusInProgress FaultStatus = "IN_PROGRESS"
	FaultStatusResolved   FaultStatus = "RESOLVED"
)

var FaultStatuses = []FaultStatus{
	FaultStatusPending,
	FaultStatusInProgress,
	FaultStatusResolved,
}

var statusLabels = map[FaultStatus]string{
	FaultStatusPending:    "待修复",
	FaultStatusInProgress: "处理中",
	FaultStatusResolved:   "已修复",
}

func (s FaultStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s FaultStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// FaultReport is one persisted incident. Only Status and ResolutionLog change
// after creation.
type FaultReport struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	ReporterName      string        `gorm:"type:varchar(128);not null" json:"reporter_name"`
	FaultTime         time.Time     `gorm:"not null" json:"fault_time"`
	VehicleID         string        `gorm:"type:varchar(128);not null" json:"vehicle_id"`
	Category          FaultCategory `gorm:"type:varchar(64);not null" json:"category"`
	Description       string        `gorm:"type:text" json:"description"`
	Solution          string        `gorm:"type:text" json:"solution"`
	ResponsiblePerson string        `gorm:"type:varchar(128)" json:"responsible_person"`
	Status            FaultStatus   `gorm:"type:varchar(32);not null;default:'PENDING'" json:"status"`
	ResolutionLog     string        `gorm:"type:text" json:"resolution_log"`
	CreatedAt         time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FaultReport) TableName() string {
	return "faults"
}
