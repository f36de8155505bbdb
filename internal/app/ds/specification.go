package ds

import "time"

// 2. Таблица спецификаций. Каждая спецификация принадлежит ровно одному разделу
type Specification struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Price     float64   `gorm:"type:double precision;not null;default:0"`
	SectionID uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
