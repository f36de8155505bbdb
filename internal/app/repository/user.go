package repository

import (
	"context"

	"formbuilder/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для пользователей (ORM)

func (r *Repository) CreateUser(ctx context.Context, email, name string) (*ds.User, error) {
	user := ds.User{
		Email: email,
		Name:  name,
	}

	err := r.db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return nil, wrap("create user", err)
	}

	return &user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (r *Repository) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, wrap("check user", err)
	}
	return count > 0, nil
}

func (r *Repository) GetAllUsers(ctx context.Context) ([]ds.User, error) {
	users := []ds.User{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

func (r *Repository) CountUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.conn(ctx, tx).Model(&ds.User{}).Count(&count).Error; err != nil {
		return 0, wrap("count users", err)
	}
	return count, nil
}
