package repository_test

import (
	"context"
	"errors"
	"testing"

	"formbuilder/internal/app/repository"
	"formbuilder/internal/app/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateAndListSections(t *testing.T) {
	ctx := context.Background()
	repo := repotest.New(t)

	chassis, err := repo.CreateSection(ctx, nil, "Chassis")
	require.NoError(t, err)
	interior, err := repo.CreateSection(ctx, nil, "Interior")
	require.NoError(t, err)

	_, err = repo.CreateSpecification(ctx, nil, "Seat Material", 200, interior.ID)
	require.NoError(t, err)
	_, err = repo.CreateSpecification(ctx, nil, "Body Color", 0, chassis.ID)
	require.NoError(t, err)
	_, err = repo.CreateSpecification(ctx, nil, "Wheel Type", 499.99, chassis.ID)
	require.NoError(t, err)

	sections, err := repo.ListSectionsWithSpecifications(ctx, nil)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "Chassis", sections[0].Name)
	assert.Equal(t, "Interior", sections[1].Name)
	require.Len(t, sections[0].Specifications, 2)
	assert.Equal(t, "Body Color", sections[0].Specifications[0].Name)
	assert.Equal(t, 499.99, sections[0].Specifications[1].Price)
	for _, s := range sections {
		for _, spec := range s.Specifications {
			assert.Equal(t, s.ID, spec.SectionID)
		}
	}
	assert.False(t, sections[0].CreatedAt.IsZero())
}

func TestCreateSpecificationRequiresSection(t *testing.T) {
	repo := repotest.New(t)

	_, err := repo.CreateSpecification(context.Background(), nil, "Orphan", 1, 42)
	require.Error(t, err)

	var storageErr *repository.StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "create specification", storageErr.Op)
}

func TestDeleteAllClearsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := repotest.New(t)

	for _, name := range []string{"Chassis", "Interior"} {
		s, err := repo.CreateSection(ctx, nil, name)
		require.NoError(t, err)
		for _, spec := range []string{"A1", "B2", "C3"} {
			_, err := repo.CreateSpecification(ctx, nil, spec, 10, s.ID)
			require.NoError(t, err)
		}
	}

	// разделы со спецификациями удалить нельзя (внешний ключ)
	_, err := repo.DeleteAllSections(ctx, nil)
	require.Error(t, err)

	specs, err := repo.DeleteAllSpecifications(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 6, specs)

	sections, err := repo.DeleteAllSections(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, sections)

	list, err := repo.ListSectionsWithSpecifications(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	count, err := repo.CountSections(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := repotest.New(t)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		s, err := repo.CreateSection(ctx, tx, "Chassis")
		if err != nil {
			return err
		}
		if _, err := repo.CreateSpecification(ctx, tx, "Color", 0, s.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.CountSections(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	repo := repotest.New(t)

	user, err := repo.CreateUser(ctx, "ada@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	_, err = repo.CreateUser(ctx, "ada@example.com", "Duplicate")
	assert.Error(t, err, "email is unique")

	exists, err := repo.UserExistsByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	users, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	count, err := repo.CountUsers(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	assert.NoError(t, repo.Ping(ctx))
}
