package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Add(ctx context.Context, f domproduct.Fields, createdAt time.Time) (*domproduct.Product, error) {
	id := uuid.NewString()
	createdAt = createdAt.UTC().Truncate(time.Millisecond)

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO productos (id, nombre, descripcion, precio, categoria, image_url, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, id, f.Name, f.Description, f.Price, string(f.Category), f.ImageURL, createdAt)
	if err != nil {
		return nil, err
	}

	return &domproduct.Product{
		ID:          id,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Category:    f.Category,
		ImageURL:    f.ImageURL,
		CreatedAt:   &createdAt,
	}, nil
}

func (r *ProductRepository) Update(ctx context.Context, id string, f domproduct.Fields, updatedAt time.Time) (*domproduct.Product, error) {
	_, err := r.db.ExecContext(ctx, `
        UPDATE productos SET nombre = ?, descripcion = ?, precio = ?, categoria = ?, image_url = ?, updated_at = ?
        WHERE id = ?
    `, f.Name, f.Description, f.Price, string(f.Category), f.ImageURL, updatedAt.UTC().Truncate(time.Millisecond), id)
	if err != nil {
		return nil, err
	}
	// MySQL reports zero affected rows for an unchanged row, so existence is
	// decided by reading it back.
	return r.Get(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM productos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, nombre, descripcion, precio, categoria, image_url, created_at, updated_at
        FROM productos WHERE id = ?
    `, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*domproduct.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, nombre, descripcion, precio, categoria, image_url, created_at, updated_at
        FROM productos
        ORDER BY created_at DESC
    `)
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

// Ping reports whether the database is reachable.
func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domproduct.Product, error) {
	var (
		p                    domproduct.Product
		category             string
		createdAt, updatedAt sql.NullTime
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.ImageURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Category = domproduct.Category(category)
	if createdAt.Valid {
		t := createdAt.Time
		p.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return &p, nil
}
