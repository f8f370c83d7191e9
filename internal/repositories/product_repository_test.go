package repository_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/malaura/storefront/internal/models"
	repository "github.com/malaura/storefront/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productRowColumns = []string{"id", "name", "description", "price", "image_url", "stock", "category", "colors", "finishes", "created_at"}

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewProductRepo(db), mock
}

func TestNewProductRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.NotNil(t, repository.NewProductRepo(db))
}

func TestListProducts(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success - Filtered by category", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)

		rows := sqlmock.NewRows(productRowColumns).
			AddRow(1, "Lavender soap", "Cold process", "10.00", "lavender.jpg", 12, "panales", "{purple,white}", "{matte}", now).
			AddRow(2, "Honeycomb", "", "4.25", "", 3, "panales", "{}", "{}", now)

		mock.ExpectQuery(`SELECT .+ FROM products WHERE \(\$1 = '' OR category = \$1\) ORDER BY created_at DESC`).
			WithArgs("panales").
			WillReturnRows(rows)

		// Act
		products, err := repo.ListProducts(ctx, models.ProductFilter{Category: "panales"})

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, int64(1), products[0].ID)
		assert.True(t, products[0].Price.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, []string{"purple", "white"}, products[0].Colors)
		assert.Equal(t, []string{"matte"}, products[0].Finishes)
		assert.Empty(t, products[1].Colors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Empty result", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)

		mock.ExpectQuery(`SELECT .+ FROM products`).
			WithArgs("").
			WillReturnRows(sqlmock.NewRows(productRowColumns))

		// Act
		products, err := repo.ListProducts(ctx, models.ProductFilter{})

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Query error", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(`SELECT .+ FROM products`).WillReturnError(dbErr)

		// Act
		products, err := repo.ListProducts(ctx, models.ProductFilter{})

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, products)
	})
}

func TestGetProductByID(t *testing.T) {
	ctx := t.Context()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)

		mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(7, "Rosemary", "Herbal", "8.50", "rosemary.jpg", 4, "al_corte", "{green}", "{}", now))

		// Act
		product, err := repo.GetProductByID(ctx, 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Rosemary", product.Name)
		assert.Equal(t, 4, product.Stock)
		assert.Equal(t, "al_corte", product.Category)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)

		mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		// Act
		product, err := repo.GetProductByID(ctx, 99)

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, product)
	})
}

func TestGetProductsByIDs(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)
		ids := []int64{1, 2}

		mock.ExpectQuery(`SELECT .+ FROM products WHERE id = ANY\(\$1\)`).
			WithArgs(pq.Array(ids)).
			WillReturnRows(sqlmock.NewRows(productRowColumns).
				AddRow(1, "Lavender soap", "", "10.00", "", 5, "panales", "{}", "{}", time.Now()).
				AddRow(2, "Honeycomb", "", "4.25", "", 5, "panales", "{}", "{}", time.Now()))

		// Act
		products, err := repo.GetProductsByIDs(ctx, ids)

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - No ids skips the query", func(t *testing.T) {
		// Arrange
		repo, mock := setupProductRepoTest(t)

		// Act
		products, err := repo.GetProductsByIDs(ctx, nil)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
