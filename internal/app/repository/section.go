package repository

import (
	"context"

	"formbuilder/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для разделов и спецификаций.
// Везде tx == nil означает работу вне транзакции.

func (r *Repository) CreateSection(ctx context.Context, tx *gorm.DB, name string) (*ds.Section, error) {
	section := ds.Section{Name: name}
	if err := r.conn(ctx, tx).Create(&section).Error; err != nil {
		return nil, wrap("create section", err)
	}
	return &section, nil
}

// CreateSpecification раздел sectionID должен уже существовать
func (r *Repository) CreateSpecification(ctx context.Context, tx *gorm.DB, name string, price float64, sectionID uint) (*ds.Specification, error) {
	spec := ds.Specification{
		Name:      name,
		Price:     price,
		SectionID: sectionID,
	}
	if err := r.conn(ctx, tx).Create(&spec).Error; err != nil {
		return nil, wrap("create specification", err)
	}
	return &spec, nil
}

// ListSectionsWithSpecifications все разделы по времени создания со спецификациями
func (r *Repository) ListSectionsWithSpecifications(ctx context.Context, tx *gorm.DB) ([]ds.Section, error) {
	sections := []ds.Section{}
	err := r.conn(ctx, tx).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Order("created_at ASC").
		Order("id ASC").
		Find(&sections).Error
	if err != nil {
		return nil, wrap("list sections", err)
	}
	return sections, nil
}

func (r *Repository) CountSections(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.conn(ctx, tx).Model(&ds.Section{}).Count(&count).Error; err != nil {
		return 0, wrap("count sections", err)
	}
	return count, nil
}

// DeleteAllSpecifications удалять до разделов (внешний ключ)
func (r *Repository) DeleteAllSpecifications(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := r.conn(ctx, tx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ds.Specification{})
	if result.Error != nil {
		return 0, wrap("delete specifications", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *Repository) DeleteAllSections(ctx context.Context, tx *gorm.DB) (int64, error) {
	result := r.conn(ctx, tx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ds.Section{})
	if result.Error != nil {
		return 0, wrap("delete sections", result.Error)
	}
	return result.RowsAffected, nil
}
