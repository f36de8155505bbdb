// Package formbuilder - создание и чтение разделов конфигурации со спецификациями.
// Все операции возвращают конверт Result, а не ошибку и не панику.
package formbuilder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"formbuilder/internal/app/ds"
	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/validation"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store - слой хранения. tx == nil означает вызов вне транзакции
type Store interface {
	CreateSection(ctx context.Context, tx *gorm.DB, name string) (*ds.Section, error)
	CreateSpecification(ctx context.Context, tx *gorm.DB, name string, price float64, sectionID uint) (*ds.Specification, error)
	ListSectionsWithSpecifications(ctx context.Context, tx *gorm.DB) ([]ds.Section, error)
	CountSections(ctx context.Context, tx *gorm.DB) (int64, error)
	DeleteAllSpecifications(ctx context.Context, tx *gorm.DB) (int64, error)
	DeleteAllSections(ctx context.Context, tx *gorm.DB) (int64, error)
	CountUsers(ctx context.Context, tx *gorm.DB) (int64, error)
	Ping(ctx context.Context) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Cache - кэш сериализованного списка разделов по поколениям.
// InvalidateSections начинает новое поколение; записи старых поколений не читаются
type Cache interface {
	SectionsGeneration(ctx context.Context) (int64, error)
	GetSections(ctx context.Context, gen int64) ([]byte, bool, error)
	SetSections(ctx context.Context, gen int64, data []byte, ttl time.Duration) error
	InvalidateSections(ctx context.Context) error
}

// ObjectStore - объектное хранилище для выгрузки (Export)
type ObjectStore interface {
	PutJSON(ctx context.Context, prefix string, data []byte) (string, error)
	PresignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
	DeleteFile(ctx context.Context, name string) error
}

type Options struct {
	// Transactional: вся форма в одной транзакции.
	// Иначе при ошибке уже созданные записи остаются в базе
	Transactional bool
	CacheTTL      time.Duration
	ExportPrefix  string
	ExportURLTTL  time.Duration
}

// Result - конверт {success, data|error, message}
type Result struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  validation.Errors `json:"errors,omitempty"`
	Skipped bool              `json:"skipped,omitempty"`

	// Unexpected: была перехвачена паника
	Unexpected bool `json:"-"`
	// Unavailable: нужная зависимость (объектное хранилище) не настроена
	Unavailable bool `json:"-"`
}

var (
	ErrExportDisabled = errors.New("object storage is not configured")
)

const (
	msgCreateFailed = "Failed to create form data"
	msgInvalidForm  = "Invalid form data"
	msgUnexpected   = "Unknown error occurred"
)

type Service struct {
	store   Store
	cache   Cache
	objects ObjectStore
	opts    Options
}

// NewService cache и objects могут быть nil
func NewService(store Store, cache Cache, objects ObjectStore, opts Options) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.ExportURLTTL <= 0 {
		opts.ExportURLTTL = time.Hour
	}
	if opts.ExportPrefix == "" {
		opts.ExportPrefix = "exports"
	}
	return &Service{store: store, cache: cache, objects: objects, opts: opts}
}

func failure(err error, message string) Result {
	return Result{Success: false, Error: err.Error(), Message: message}
}

// recoverResult превращает панику в неуспешный результат
func recoverResult(res *Result, message string) {
	if r := recover(); r != nil {
		logrus.Errorf("form builder: recovered panic: %v", r)
		*res = Result{Success: false, Error: msgUnexpected, Message: message, Unexpected: true}
	}
}

// CreateFormBuilder создаёт разделы по порядку, для каждого - его спецификации
func (s *Service) CreateFormBuilder(ctx context.Context, fields []dto.SectionWithSpecs) (res Result) {
	defer recoverResult(&res, msgCreateFailed)

	fields = validation.Normalize(fields)
	if err := validation.ValidateFormFields(fields); err != nil {
		var verrs validation.Errors
		errors.As(err, &verrs)
		logrus.WithField("errors", len(verrs)).Warn("form builder: rejected invalid form")
		return Result{Success: false, Error: err.Error(), Message: msgInvalidForm, Errors: verrs}
	}

	results, err := s.createAll(ctx, fields)
	s.invalidate(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error creating form builder data")
		return failure(err, msgCreateFailed)
	}

	return Result{
		Success: true,
		Data:    results,
		Message: fmt.Sprintf("Successfully created %d sections with their specifications", len(results)),
	}
}

func (s *Service) createAll(ctx context.Context, fields []dto.SectionWithSpecs) ([]dto.CreatedSection, error) {
	var results []dto.CreatedSection
	create := func(tx *gorm.DB) error {
		results = make([]dto.CreatedSection, 0, len(fields))
		for _, field := range fields {
			created, err := s.createSection(ctx, tx, field)
			if err != nil {
				return err
			}
			results = append(results, created)
		}
		return nil
	}

	var err error
	if s.opts.Transactional {
		err = s.store.Transaction(ctx, create)
	} else {
		err = create(nil)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) createSection(ctx context.Context, tx *gorm.DB, field dto.SectionWithSpecs) (dto.CreatedSection, error) {
	section, err := s.store.CreateSection(ctx, tx, field.Section.Name)
	if err != nil {
		return dto.CreatedSection{}, err
	}

	specs := make([]dto.SpecificationResponse, 0, len(field.Specifications))
	for _, in := range field.Specifications {
		spec, err := s.store.CreateSpecification(ctx, tx, in.Name, in.PriceOrZero(), section.ID)
		if err != nil {
			return dto.CreatedSection{}, err
		}
		specs = append(specs, specificationResponse(*spec))
	}

	return dto.CreatedSection{
		Section:        sectionResponse(*section),
		Specifications: specs,
	}, nil
}

// GetAllSectionsWithSpecs все разделы по времени создания вместе со спецификациями
func (s *Service) GetAllSectionsWithSpecs(ctx context.Context) (res Result) {
	defer recoverResult(&res, "Failed to fetch data")

	// поколение читается до базы: если запись успеет пройти раньше нас,
	// прочитанный список уйдёт в уже устаревшее поколение
	gen, cacheable := s.cacheGeneration(ctx)
	if cacheable {
		if cached, ok := s.cachedSections(ctx, gen); ok {
			return Result{Success: true, Data: cached}
		}
	}

	sections, err := s.store.ListSectionsWithSpecifications(ctx, nil)
	if err != nil {
		logrus.WithError(err).Error("Error fetching sections")
		return Result{Success: false, Error: err.Error()}
	}

	data := make([]dto.SectionWithSpecsResponse, 0, len(sections))
	for _, section := range sections {
		data = append(data, sectionWithSpecsResponse(section))
	}
	if cacheable {
		s.storeSections(ctx, gen, data)
	}

	return Result{Success: true, Data: data}
}

func (s *Service) cacheGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.SectionsGeneration(ctx)
	if err != nil {
		logrus.WithError(err).Warn("form builder: cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (s *Service) cachedSections(ctx context.Context, gen int64) ([]dto.SectionWithSpecsResponse, bool) {
	raw, ok, err := s.cache.GetSections(ctx, gen)
	if err != nil {
		logrus.WithError(err).Warn("form builder: cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var data []dto.SectionWithSpecsResponse
	if err := json.Unmarshal(raw, &data); err != nil {
		logrus.WithError(err).Warn("form builder: cache entry is corrupted")
		return nil, false
	}
	return data, true
}

func (s *Service) storeSections(ctx context.Context, gen int64, data []dto.SectionWithSpecsResponse) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.cache.SetSections(ctx, gen, raw, s.opts.CacheTTL); err != nil {
		logrus.WithError(err).Warn("form builder: cache write failed")
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSections(ctx); err != nil {
		logrus.WithError(err).Warn("form builder: cache invalidation failed")
	}
}

// Export выгружает текущий список разделов в JSON и возвращает временную ссылку
func (s *Service) Export(ctx context.Context) (res Result) {
	defer recoverResult(&res, "Failed to export form data")

	if s.objects == nil {
		res = failure(ErrExportDisabled, "Failed to export form data")
		res.Unavailable = true
		return res
	}

	sections, err := s.store.ListSectionsWithSpecifications(ctx, nil)
	if err != nil {
		return failure(err, "Failed to export form data")
	}
	data := make([]dto.SectionWithSpecsResponse, 0, len(sections))
	for _, section := range sections {
		data = append(data, sectionWithSpecsResponse(section))
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return failure(err, "Failed to export form data")
	}

	name, err := s.objects.PutJSON(ctx, s.opts.ExportPrefix, raw)
	if err != nil {
		logrus.WithError(err).Error("form builder: export upload failed")
		return failure(err, "Failed to export form data")
	}

	url, err := s.objects.PresignedURL(ctx, name, s.opts.ExportURLTTL)
	if err != nil {
		if delErr := s.objects.DeleteFile(ctx, name); delErr != nil {
			logrus.WithError(delErr).Warnf("form builder: orphaned export %s", name)
		}
		return failure(err, "Failed to export form data")
	}

	return Result{
		Success: true,
		Data:    dto.ExportResponse{Object: name, URL: url},
		Message: fmt.Sprintf("Exported %d sections", len(data)),
	}
}

func sectionResponse(s ds.Section) dto.SectionResponse {
	return dto.SectionResponse{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func specificationResponse(s ds.Specification) dto.SpecificationResponse {
	return dto.SpecificationResponse{
		ID:        s.ID,
		Name:      s.Name,
		Price:     s.Price,
		SectionID: s.SectionID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func sectionWithSpecsResponse(s ds.Section) dto.SectionWithSpecsResponse {
	specs := make([]dto.SpecificationResponse, 0, len(s.Specifications))
	for _, spec := range s.Specifications {
		specs = append(specs, specificationResponse(spec))
	}
	return dto.SectionWithSpecsResponse{
		SectionResponse: sectionResponse(s),
		Specifications:  specs,
	}
}
