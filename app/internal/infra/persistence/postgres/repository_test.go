package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
)

var columns = []string{"id", "nombre", "descripcion", "precio", "categoria", "image_url", "created_at", "updated_at"}

const productID = "9b2f6c1e-4d5a-4f7e-8a3b-1c2d3e4f5a6b"

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestProductRepository_Add(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProductRepository(mock)
	createdAt := time.UnixMilli(1700000000123).UTC()
	var updatedAt *time.Time

	mock.ExpectQuery(`INSERT INTO productos`).
		WithArgs(pgxmock.AnyArg(), "Anillo", "Plata", "$450", "anillos", "https://img/x.jpg", createdAt).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(productID, "Anillo", "Plata", "$450", "anillos", "https://img/x.jpg", &createdAt, updatedAt))

	p, err := repo.Add(context.Background(), domproduct.Fields{
		Name:        "Anillo",
		Description: "Plata",
		Price:       "$450",
		Category:    domproduct.CategoryRings,
		ImageURL:    "https://img/x.jpg",
	}, createdAt)

	require.NoError(t, err)
	require.Equal(t, productID, p.ID)
	require.Equal(t, domproduct.CategoryRings, p.Category)
	require.Equal(t, int64(1700000000123), p.CreatedMillis())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProductRepository(mock)
	newer := time.UnixMilli(20).UTC()
	older := time.UnixMilli(10).UTC()

	mock.ExpectQuery(`FROM productos ORDER BY created_at DESC NULLS LAST`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("a", "Anillo", "", "$1", "anillos", "", &newer, &newer).
			AddRow("b", "Dije", "", "$2", "dijes", "", &older, &older))

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "a", products[0].ID)
	require.Equal(t, domproduct.CategoryCharms, products[1].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	fields := domproduct.Fields{Name: "Anillo", Category: domproduct.CategoryRings}

	t.Run("Malformed id skips the query", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewProductRepository(mock)

		_, err := repo.Get(ctx, "not-a-uuid")
		require.ErrorIs(t, err, domproduct.ErrProductNotFound)
		_, err = repo.Update(ctx, "not-a-uuid", fields, time.Now())
		require.ErrorIs(t, err, domproduct.ErrProductNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), domproduct.ErrProductNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get without rows", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`FROM productos WHERE id = \$1`).
			WithArgs(productID).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := NewProductRepository(mock).Get(ctx, productID)
		require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	})

	t.Run("Update without rows", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`UPDATE productos`).
			WithArgs("Anillo", "", "", "anillos", "", pgxmock.AnyArg(), productID).
			WillReturnRows(pgxmock.NewRows(columns))

		_, err := NewProductRepository(mock).Update(ctx, productID, fields, time.Now())
		require.ErrorIs(t, err, domproduct.ErrProductNotFound)
	})

	t.Run("Delete affects nothing", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM productos WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		require.ErrorIs(t, NewProductRepository(mock).Delete(ctx, productID), domproduct.ErrProductNotFound)
	})
}

func TestProductRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec(`DELETE FROM productos WHERE id = \$1`).
		WithArgs(productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, NewProductRepository(mock).Delete(context.Background(), productID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Ping(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	require.Error(t, NewProductRepository(mock).Ping(context.Background()))
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Annel", "admin@annel.mx", "$2a$hash").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	u, err := repo.Create(context.Background(), &domuser.User{Name: "Annel", Email: "admin@annel.mx", PasswordHash: "$2a$hash"})

	require.NoError(t, err)
	require.EqualValues(t, 7, u.ID)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := NewUserRepository(mock).Create(context.Background(), &domuser.User{Email: "admin@annel.mx"})

	require.ErrorIs(t, err, domuser.ErrEmailAlreadyUsed)
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("nadie@annel.mx").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash"}))

	_, err := NewUserRepository(mock).GetByEmail(context.Background(), "nadie@annel.mx")

	require.ErrorIs(t, err, domuser.ErrUserNotFound)
}
