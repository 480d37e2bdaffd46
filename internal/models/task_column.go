package models

import "time"

// TaskColumn is one board column. Order defines the left-to-right position;
// values need not stay contiguous after deletions.
type TaskColumn struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Label     string    `gorm:"type:varchar(100);not null" json:"label"`
	Color     string    `gorm:"type:varchar(20)" json:"color"`
	Icon      string    `gorm:"type:varchar(50)" json:"icon"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PriorityLevel struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Label     string    `gorm:"type:varchar(100);not null" json:"label"`
	Color     string    `gorm:"type:varchar(20)" json:"color"`
	DotColor  string    `gorm:"type:varchar(20)" json:"dot_color"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
