package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formbuilder/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("record not found")

// StorageError ошибка работы с базой данных (ORM / соединение)
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

type Repository struct {
	db *gorm.DB
}

// New подключается к PostgreSQL по DSN
func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		return nil, wrap("connect", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB оборачивает уже открытое соединение (используется в тестах с sqlite)
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NewGormLogger пишет SQL-логи gorm через logrus
func NewGormLogger() logger.Interface {
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// AutoMigrate миграция всех таблиц
func (r *Repository) AutoMigrate() error {
	err := r.db.AutoMigrate(
		&ds.Section{},
		&ds.Specification{},
		&ds.User{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	return wrap("ping", sqlDB.PingContext(ctx))
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction выполняет fn в одной транзакции, tx передаётся в методы репозитория
func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *Repository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx)
}
