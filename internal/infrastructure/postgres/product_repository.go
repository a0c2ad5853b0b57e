package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/catalogo/internal/domain"
	"github.com/jhoicas/catalogo/internal/domain/entity"
	"github.com/jhoicas/catalogo/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"p.id::text",
	"p.name",
	"p.description",
	"p.price",
	"p.quantity",
	"p.image_url",
	"ARRAY(SELECT pc.category_id::text FROM product_categories pc WHERE pc.product_id = p.id ORDER BY pc.category_id) AS category_ids",
	"p.created_at",
	"p.updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// productListQuery arma el SELECT del listado. categoryID vacío no filtra por categoría.
func productListQuery(filter repository.ProductFilter, categoryID string) sq.SelectBuilder {
	b := psql.Select(productColumns...).From("products p")
	if filter.Search != "" {
		b = b.Where("p.name ILIKE ?", containsPattern(filter.Search))
	}
	if categoryID != "" {
		b = b.Where("EXISTS (SELECT 1 FROM product_categories f WHERE f.product_id = p.id AND f.category_id = ?::uuid)", categoryID)
	}
	return b.OrderBy("lower(p.name)", "p.name")
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.ImageURL,
		&p.CategoryIDs, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) query(ctx context.Context, b sq.SelectBuilder) ([]*entity.Product, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste el producto y sus categorías en una transacción (savepoint si q ya es tx).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (id, name, description, price, quantity, image_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			product.ID, product.Name, product.Description, product.Price, product.Quantity,
			product.ImageURL, product.CreatedAt, product.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return linkCategories(ctx, tx, product.ID, product.CategoryIDs)
	})
	return mapProductWriteError("insert product", err)
}

// GetByID obtiene un producto con sus categorías ordenadas por nombre.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	sql, args, err := psql.Select(productColumns...).From("products p").Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	p, err := scanProduct(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT c.id::text, c.name, c.description, c.created_at, c.updated_at
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1
		ORDER BY lower(c.name), c.name`, id)
	if err != nil {
		return nil, fmt.Errorf("get product categories: %w", err)
	}
	cats, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("get product categories: %w", err)
	}
	for _, c := range cats {
		p.Categories = append(p.Categories, *c)
	}
	return p, nil
}

// Update reemplaza campos y categorías. ErrNotFound si no existe.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	if !validID(product.ID) {
		return domain.ErrNotFound
	}
	err := pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE products SET name = $2, description = $3, price = $4, quantity = $5, image_url = $6, updated_at = $7
			WHERE id = $1`,
			product.ID, product.Name, product.Description, product.Price, product.Quantity,
			product.ImageURL, product.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, product.ID); err != nil {
			return err
		}
		return linkCategories(ctx, tx, product.ID, product.CategoryIDs)
	})
	return mapProductWriteError("update product", err)
}

// List lista productos ordenados por nombre, filtrando por subcadena si filter.Search no es vacío.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	return r.query(ctx, productListQuery(filter, ""))
}

// ListByCategory lista los productos que referencian la categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	if !validID(categoryID) {
		return nil, nil
	}
	return r.query(ctx, productListQuery(repository.ProductFilter{}, categoryID))
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete elimina un producto; sus filas de product_categories caen por cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func linkCategories(ctx context.Context, tx pgx.Tx, productID string, categoryIDs []string) error {
	if len(validIDs(categoryIDs)) != len(categoryIDs) {
		return domain.ErrInvalidInput
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO product_categories (product_id, category_id) SELECT $1::uuid, unnest($2::text[])::uuid`,
		productID, categoryIDs,
	)
	return err
}

func mapProductWriteError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		return err
	case isForeignKeyViolation(err):
		return domain.ErrInvalidInput
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
