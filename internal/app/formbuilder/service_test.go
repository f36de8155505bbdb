package formbuilder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"formbuilder/internal/app/ds"
	"formbuilder/internal/app/dto"
	"formbuilder/internal/app/repository"
	"formbuilder/internal/app/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errStorage = errors.New("connection reset by peer")

// faultStore отказывает на failAt-м вызове CreateSpecification (с единицы)
type faultStore struct {
	*repository.Repository
	failAt int
	calls  int
	panics bool
}

func (f *faultStore) CreateSpecification(ctx context.Context, tx *gorm.DB, name string, price float64, sectionID uint) (*ds.Specification, error) {
	f.calls++
	if f.calls == f.failAt {
		if f.panics {
			panic("driver bug")
		}
		return nil, &repository.StorageError{Op: "create specification", Err: errStorage}
	}
	return f.Repository.CreateSpecification(ctx, tx, name, price, sectionID)
}

type memCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[int64][]byte
	hits        int
	invalidated int
}

func (c *memCache) SectionsGeneration(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *memCache) GetSections(_ context.Context, gen int64) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[gen]
	if !ok {
		return nil, false, nil
	}
	c.hits++
	return data, true, nil
}

func (c *memCache) SetSections(_ context.Context, gen int64, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[int64][]byte{}
	}
	c.entries[gen] = data
	return nil
}

func (c *memCache) InvalidateSections(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
	return nil
}

// pausedStore задерживает первое чтение списка уже после обращения к базе
type pausedStore struct {
	*repository.Repository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausedStore) ListSectionsWithSpecifications(ctx context.Context, tx *gorm.DB) ([]ds.Section, error) {
	sections, err := p.Repository.ListSectionsWithSpecifications(ctx, tx)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return sections, err
}

type memObjects struct {
	objects    map[string][]byte
	presignErr error
}

func (m *memObjects) PutJSON(_ context.Context, prefix string, data []byte) (string, error) {
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	name := prefix + "/export.json"
	m.objects[name] = data
	return name, nil
}

func (m *memObjects) PresignedURL(_ context.Context, name string, _ time.Duration) (string, error) {
	if m.presignErr != nil {
		return "", m.presignErr
	}
	return "http://minio.local/" + name + "?X-Amz-Signature=abc", nil
}

func (m *memObjects) DeleteFile(_ context.Context, name string) error {
	delete(m.objects, name)
	return nil
}

func twoSections() []dto.SectionWithSpecs {
	return []dto.SectionWithSpecs{
		{
			Section: dto.SectionInput{Name: "Chassis"},
			Specifications: []dto.SpecificationInput{
				{Name: "Color", Price: dto.Price(0)},
				{Name: "Wheels", Price: dto.Price(500)},
			},
		},
		{
			Section: dto.SectionInput{Name: "Interior"},
			Specifications: []dto.SpecificationInput{
				{Name: "Seats", Price: dto.Price(1200.5)},
			},
		},
	}
}

func listSections(t *testing.T, repo *repository.Repository) []ds.Section {
	t.Helper()
	sections, err := repo.ListSectionsWithSpecifications(context.Background(), nil)
	require.NoError(t, err)
	return sections
}

func TestCreateFormBuilder(t *testing.T) {
	repo := repotest.New(t)
	svc := NewService(repo, nil, nil, Options{})

	res := svc.CreateFormBuilder(context.Background(), twoSections())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Successfully created 2 sections with their specifications", res.Message)

	data, ok := res.Data.([]dto.CreatedSection)
	require.True(t, ok)
	require.Len(t, data, 2)
	for _, created := range data {
		assert.NotZero(t, created.Section.ID)
		for _, spec := range created.Specifications {
			assert.Equal(t, created.Section.ID, spec.SectionID)
		}
	}
	require.Len(t, data[0].Specifications, 2)
	assert.Equal(t, 0.0, data[0].Specifications[0].Price)
	assert.Equal(t, 500.0, data[0].Specifications[1].Price)
	assert.Equal(t, 1200.5, data[1].Specifications[0].Price)

	assert.Len(t, listSections(t, repo), 2)
}

func TestCreateFormBuilderTrimsAndDefaultsPrice(t *testing.T) {
	repo := repotest.New(t)
	svc := NewService(repo, nil, nil, Options{})

	res := svc.CreateFormBuilder(context.Background(), []dto.SectionWithSpecs{{
		Section:        dto.SectionInput{Name: "  Chassis  "},
		Specifications: []dto.SpecificationInput{{Name: " Color "}},
	}})
	require.True(t, res.Success, res.Error)

	sections := listSections(t, repo)
	require.Len(t, sections, 1)
	assert.Equal(t, "Chassis", sections[0].Name)
	assert.Equal(t, "Color", sections[0].Specifications[0].Name)
	assert.Zero(t, sections[0].Specifications[0].Price)
}

func TestCreateFormBuilderRejectsInvalidForm(t *testing.T) {
	repo := repotest.New(t)
	svc := NewService(repo, nil, nil, Options{})

	res := svc.CreateFormBuilder(context.Background(), nil)
	assert.False(t, res.Success)
	assert.False(t, res.Unexpected)
	assert.Equal(t, "Invalid form data", res.Message)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "At least one section is required", res.Errors[0].Message)

	fields := twoSections()
	fields[1].Specifications[0].Price = dto.Price(-1)
	res = svc.CreateFormBuilder(context.Background(), fields)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Section)
	assert.Equal(t, 0, res.Errors[0].Specification)

	assert.Empty(t, listSections(t, repo), "nothing is written for an invalid form")
}

func TestCreateFormBuilderPartialFailureKeepsRows(t *testing.T) {
	repo := repotest.New(t)
	// 3-й вызов - первая спецификация второго раздела
	store := &faultStore{Repository: repo, failAt: 3}
	svc := NewService(store, nil, nil, Options{})

	res := svc.CreateFormBuilder(context.Background(), twoSections())
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to create form data", res.Message)
	assert.Contains(t, res.Error, errStorage.Error())
	assert.Nil(t, res.Data)

	sections := listSections(t, repo)
	require.Len(t, sections, 2, "no rollback: rows written before the failure stay")
	assert.Equal(t, "Chassis", sections[0].Name)
	assert.Len(t, sections[0].Specifications, 2)
	assert.Equal(t, "Interior", sections[1].Name)
	assert.Empty(t, sections[1].Specifications)
}

func TestCreateFormBuilderTransactionalRollsBack(t *testing.T) {
	repo := repotest.New(t)
	store := &faultStore{Repository: repo, failAt: 3}
	svc := NewService(store, nil, nil, Options{Transactional: true})

	res := svc.CreateFormBuilder(context.Background(), twoSections())
	assert.False(t, res.Success)
	assert.Empty(t, listSections(t, repo))

	store.failAt = 0
	res = svc.CreateFormBuilder(context.Background(), twoSections())
	require.True(t, res.Success, res.Error)
	assert.Len(t, listSections(t, repo), 2)
}

func TestCreateFormBuilderRecoversPanic(t *testing.T) {
	repo := repotest.New(t)
	svc := NewService(&faultStore{Repository: repo, failAt: 1, panics: true}, nil, nil, Options{})

	res := svc.CreateFormBuilder(context.Background(), twoSections())
	assert.False(t, res.Success)
	assert.True(t, res.Unexpected)
	assert.Equal(t, "Unknown error occurred", res.Error)
}

func TestGetAllSectionsWithSpecsUsesCache(t *testing.T) {
	repo := repotest.New(t)
	cache := &memCache{}
	svc := NewService(repo, cache, nil, Options{})
	ctx := context.Background()

	res := svc.GetAllSectionsWithSpecs(ctx)
	require.True(t, res.Success)
	assert.Equal(t, []dto.SectionWithSpecsResponse{}, res.Data)

	require.True(t, svc.CreateFormBuilder(ctx, twoSections()).Success)
	assert.Equal(t, 1, cache.invalidated)

	res = svc.GetAllSectionsWithSpecs(ctx)
	require.True(t, res.Success)
	fresh := res.Data.([]dto.SectionWithSpecsResponse)
	require.Len(t, fresh, 2)
	assert.Equal(t, "Chassis", fresh[0].Name)
	assert.Len(t, fresh[0].Specifications, 2)
	assert.Equal(t, 0, cache.hits)

	res = svc.GetAllSectionsWithSpecs(ctx)
	require.True(t, res.Success)
	cached := res.Data.([]dto.SectionWithSpecsResponse)
	assert.Equal(t, 1, cache.hits)
	require.Len(t, cached, 2)
	assert.Equal(t, fresh[1].Specifications[0].Price, cached[1].Specifications[0].Price)
	assert.Equal(t, fresh[1].ID, cached[1].ID)
}

func TestGetAllSectionsWithSpecsDoesNotCacheListReadBeforeCreate(t *testing.T) {
	repo := repotest.New(t)
	store := &pausedStore{Repository: repo, read: make(chan struct{}), release: make(chan struct{})}
	cache := &memCache{}
	svc := NewService(store, cache, nil, Options{})
	ctx := context.Background()

	done := make(chan Result, 1)
	go func() { done <- svc.GetAllSectionsWithSpecs(ctx) }()

	select {
	case <-store.read:
	case <-time.After(5 * time.Second):
		t.Fatal("listing did not reach the database")
	}
	// список уже прочитан (пустой), создание проходит до записи в кэш
	require.True(t, svc.CreateFormBuilder(ctx, twoSections()).Success)
	close(store.release)

	stale := <-done
	require.True(t, stale.Success)
	assert.Empty(t, stale.Data)

	res := svc.GetAllSectionsWithSpecs(ctx)
	require.True(t, res.Success)
	assert.Len(t, res.Data.([]dto.SectionWithSpecsResponse), 2)

	res = svc.GetAllSectionsWithSpecs(ctx)
	assert.Len(t, res.Data.([]dto.SectionWithSpecsResponse), 2)
	assert.Equal(t, 1, cache.hits)
}

func TestSeedAndClearAdvanceCacheGeneration(t *testing.T) {
	repo := repotest.New(t)
	cache := &memCache{}
	svc := NewService(repo, cache, nil, Options{})
	ctx := context.Background()

	require.True(t, svc.GetAllSectionsWithSpecs(ctx).Success)
	require.True(t, svc.Seed(ctx).Success)
	assert.Len(t, svc.GetAllSectionsWithSpecs(ctx).Data, 2)

	require.True(t, svc.Clear(ctx).Success)
	assert.Empty(t, svc.GetAllSectionsWithSpecs(ctx).Data)
	assert.Equal(t, int64(2), cache.gen)
}

func TestSeedAndClear(t *testing.T) {
	repo := repotest.New(t)
	cache := &memCache{}
	svc := NewService(repo, cache, nil, Options{})
	ctx := context.Background()

	res := svc.Seed(ctx)
	require.True(t, res.Success, res.Error)
	assert.False(t, res.Skipped)
	assert.Equal(t, "Successfully seeded 2 sections with specifications", res.Message)

	res = svc.Seed(ctx)
	require.True(t, res.Success)
	assert.True(t, res.Skipped)
	assert.Equal(t, "Test data already exists", res.Message)

	res = svc.Clear(ctx)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Cleared 4 specifications and 2 sections", res.Message)
	assert.Equal(t, dto.ClearResult{DeletedSpecs: 4, DeletedSections: 2}, res.Data)

	res = svc.GetAllSectionsWithSpecs(ctx)
	require.True(t, res.Success)
	assert.Empty(t, res.Data)
}

func TestClearTransactional(t *testing.T) {
	repo := repotest.New(t)
	svc := NewService(repo, nil, nil, Options{Transactional: true})
	ctx := context.Background()

	require.True(t, svc.Seed(ctx).Success)
	res := svc.Clear(ctx)
	require.True(t, res.Success, res.Error)
	assert.Empty(t, listSections(t, repo))
}

func TestTestConnection(t *testing.T) {
	repo := repotest.New(t)
	svc := NewService(repo, nil, nil, Options{})

	res := svc.TestConnection(context.Background())
	assert.True(t, res.Success)
	assert.Equal(t, "Database connection successful", res.Message)

	require.NoError(t, repo.Close())
	res = svc.TestConnection(context.Background())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestExport(t *testing.T) {
	repo := repotest.New(t)
	ctx := context.Background()

	res := NewService(repo, nil, nil, Options{}).Export(ctx)
	assert.False(t, res.Success)
	assert.True(t, res.Unavailable)
	assert.Equal(t, ErrExportDisabled.Error(), res.Error)

	objects := &memObjects{}
	svc := NewService(repo, nil, objects, Options{ExportPrefix: "snapshots"})
	require.True(t, svc.Seed(ctx).Success)

	res = svc.Export(ctx)
	require.True(t, res.Success, res.Error)
	export := res.Data.(dto.ExportResponse)
	assert.Equal(t, "snapshots/export.json", export.Object)
	assert.Contains(t, export.URL, "X-Amz-Signature")
	assert.Contains(t, string(objects.objects[export.Object]), `"Seat Material"`)

	objects.presignErr = errors.New("presign failed")
	res = svc.Export(ctx)
	assert.False(t, res.Success)
	assert.Empty(t, objects.objects, "upload is removed when the link cannot be issued")
}
