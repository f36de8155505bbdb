// Package repotest поднимает репозиторий поверх sqlite в памяти для тестов.
package repotest

import (
	"fmt"
	"testing"

	"formbuilder/internal/app/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New создаёт отдельную базу на каждый тест и мигрирует схему
func New(t testing.TB) *repository.Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// одно соединение: транзакция и последующие запросы видят одну и ту же базу
	sqlDB.SetMaxOpenConns(1)

	repo := repository.NewWithDB(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
