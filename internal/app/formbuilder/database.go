package formbuilder

import (
	"context"
	"fmt"

	"formbuilder/internal/app/dto"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// тестовые данные для POST /api/test-db/seed
var seedData = []dto.SectionWithSpecs{
	{
		Section: dto.SectionInput{Name: "Chassis"},
		Specifications: []dto.SpecificationInput{
			{Name: "Body Color", Price: dto.Price(0)},
			{Name: "Wheel Type", Price: dto.Price(500)},
		},
	},
	{
		Section: dto.SectionInput{Name: "Interior"},
		Specifications: []dto.SpecificationInput{
			{Name: "Seat Material", Price: dto.Price(200)},
			{Name: "Dashboard Color", Price: dto.Price(100)},
		},
	},
}

// TestConnection проверяет соединение с базой и простой запрос
func (s *Service) TestConnection(ctx context.Context) (res Result) {
	defer recoverResult(&res, "Database connection failed")

	if err := s.store.Ping(ctx); err != nil {
		logrus.WithError(err).Error("Database connection failed")
		return Result{Success: false, Error: err.Error()}
	}

	users, err := s.store.CountUsers(ctx, nil)
	if err != nil {
		logrus.WithError(err).Error("Database connection failed")
		return Result{Success: false, Error: err.Error()}
	}
	logrus.Infof("Database connected successfully, current user count: %d", users)

	return Result{Success: true, Message: "Database connection successful"}
}

// Seed создаёт тестовые разделы, если база пуста
func (s *Service) Seed(ctx context.Context) (res Result) {
	defer recoverResult(&res, "Seeding failed")

	existing, err := s.store.CountSections(ctx, nil)
	if err != nil {
		logrus.WithError(err).Error("Seeding error")
		return Result{Success: false, Error: err.Error()}
	}
	if existing > 0 {
		return Result{Success: true, Message: "Test data already exists", Skipped: true}
	}

	results, err := s.createAll(ctx, seedData)
	s.invalidate(ctx)
	if err != nil {
		logrus.WithError(err).Error("Seeding error")
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Successfully seeded %d sections with specifications", len(results)),
		Data:    results,
	}
}

// Clear удаляет все спецификации, затем все разделы
func (s *Service) Clear(ctx context.Context) (res Result) {
	defer recoverResult(&res, "Clear operation failed")

	var cleared dto.ClearResult
	deleteAll := func(tx *gorm.DB) error {
		var err error
		cleared.DeletedSpecs, err = s.store.DeleteAllSpecifications(ctx, tx)
		if err != nil {
			return err
		}
		cleared.DeletedSections, err = s.store.DeleteAllSections(ctx, tx)
		return err
	}

	var err error
	if s.opts.Transactional {
		err = s.store.Transaction(ctx, deleteAll)
	} else {
		err = deleteAll(nil)
	}
	s.invalidate(ctx)
	if err != nil {
		logrus.WithError(err).Error("Clear data error")
		return Result{Success: false, Error: err.Error()}
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("Cleared %d specifications and %d sections", cleared.DeletedSpecs, cleared.DeletedSections),
		Data:    cleared,
	}
}
