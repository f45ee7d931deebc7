package models

import "time"

type TechnologyType struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"size:100;not null" json:"display_name"`

	Languages  []ProgrammingLanguage `gorm:"foreignKey:TechnologyTypeID" json:"-"`
	Categories []Category            `gorm:"foreignKey:TechnologyTypeID" json:"-"`
}

type ProgrammingLanguage struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	DisplayName      string         `gorm:"size:150;not null" json:"display_name"`
	TechnologyTypeID uint           `gorm:"not null" json:"technology_type_id"`
	TechnologyType   TechnologyType `gorm:"foreignKey:TechnologyTypeID" json:"-"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	IsCustom         bool           `gorm:"default:false" json:"is_custom"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type Category struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;not null;uniqueIndex:idx_category_name_type" json:"name"`
	DisplayName      string         `gorm:"size:150;not null" json:"display_name"`
	Description      *string        `gorm:"type:text" json:"description"`
	TechnologyTypeID uint           `gorm:"not null;uniqueIndex:idx_category_name_type" json:"technology_type_id"`
	TechnologyType   TechnologyType `gorm:"foreignKey:TechnologyTypeID" json:"-"`
	AllowsHint       bool           `gorm:"default:false" json:"allows_hint"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
}

type DifficultyLevel struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	DisplayName string  `gorm:"size:100;not null" json:"display_name"`
	Description *string `gorm:"type:text" json:"description"`
	SortOrder   int     `gorm:"not null" json:"sort_order"`
}
