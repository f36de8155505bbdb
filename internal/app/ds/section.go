package ds

import "time"

// 1. Таблица разделов конфигурации (Chassis, Interior, ...)
type Section struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Specifications []Specification `gorm:"foreignKey:SectionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
