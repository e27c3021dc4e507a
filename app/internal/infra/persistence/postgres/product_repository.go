package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
)

const productColumns = `id::text, nombre, descripcion, precio, categoria, image_url, created_at, updated_at`

type ProductRepository struct {
	pool DB
}

func NewProductRepository(pool DB) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Add(ctx context.Context, f domproduct.Fields, createdAt time.Time) (*domproduct.Product, error) {
	query := `
		INSERT INTO productos (id, nombre, descripcion, precio, categoria, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), f.Name, f.Description, f.Price, string(f.Category), f.ImageURL, createdAt.UTC())
	return scanProduct(row)
}

func (r *ProductRepository) Update(ctx context.Context, id string, f domproduct.Fields, updatedAt time.Time) (*domproduct.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domproduct.ErrProductNotFound
	}

	query := `
		UPDATE productos
		SET nombre = $1, descripcion = $2, precio = $3, categoria = $4, image_url = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		f.Name, f.Description, f.Price, string(f.Category), f.ImageURL, updatedAt.UTC(), uid.String())
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domproduct.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domproduct.ErrProductNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM productos WHERE id = $1`, uid.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domproduct.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domproduct.ErrProductNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, uid.String())
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domproduct.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM productos ORDER BY created_at DESC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domproduct.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanProduct(row pgx.Row) (*domproduct.Product, error) {
	var (
		p        domproduct.Product
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Category = domproduct.Category(category)
	return &p, nil
}
