package catalogue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository mocks the product writes the importer performs.
type MockProductRepository struct {
	repository.ProductRepository
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func withID(id string) any {
	return mock.MatchedBy(func(p *model.Product) bool { return p.ID == id })
}

func TestImporter_Import_CreatesAndSkipsExisting(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.Product, error) {
			switch filePath {
			case "a.csv":
				return []model.Product{{ID: "rice"}, {ID: "milk"}}, nil
			case "b.csv":
				return []model.Product{{ID: "soap"}}, nil
			}
			return nil, fmt.Errorf("unexpected path %s", filePath)
		},
	}

	repo := new(MockProductRepository)
	repo.On("Create", mock.Anything, withID("rice")).Return(nil).Once()
	repo.On("Create", mock.Anything, withID("milk")).Return(model.ErrProductExists).Once()
	repo.On("Create", mock.Anything, withID("soap")).Return(nil).Once()

	importer := NewImporter(loader, repo, zerolog.Nop())
	result, err := importer.Import(context.Background(), "a.csv", "b.csv")

	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 1}, result)
	repo.AssertExpectations(t)
}

func TestImporter_Import_LoadFailureWritesNothing(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.Product, error) {
			if filePath == "bad.csv" {
				return nil, errors.New("corrupt file")
			}
			return []model.Product{{ID: "rice"}}, nil
		},
	}

	repo := new(MockProductRepository)

	importer := NewImporter(loader, repo, zerolog.Nop())
	result, err := importer.Import(context.Background(), "good.csv", "bad.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt file")
	assert.Equal(t, Result{}, result)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImporter_Import_RepositoryError(t *testing.T) {
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, filePath string) ([]model.Product, error) {
			return []model.Product{{ID: "rice"}, {ID: "milk"}}, nil
		},
	}

	repo := new(MockProductRepository)
	repo.On("Create", mock.Anything, withID("rice")).Return(nil).Once()
	repo.On("Create", mock.Anything, withID("milk")).Return(errors.New("connection reset")).Once()

	importer := NewImporter(loader, repo, zerolog.Nop())
	result, err := importer.Import(context.Background(), "seed.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "milk")
	assert.Equal(t, 1, result.Created)
	repo.AssertExpectations(t)
}
