package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gabohq/backend/internal/domain"
)

const productColumns = "id, code, name, description, brand, category, price, stock, min_stock, unit, active"

// CatalogStore implements domain.CatalogRepository on SQLite.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a catalog store over an open database.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// SearchExact finds products whose name, code, description or brand
// contains the term, case-insensitively. An empty term matches nothing.
func (s *CatalogStore) SearchExact(ctx context.Context, term string, activeOnly bool) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	query := `SELECT ` + productColumns + ` FROM products
		WHERE (lower(name) LIKE ? OR lower(code) LIKE ? OR lower(description) LIKE ? OR lower(brand) LIKE ?)`
	if activeOnly {
		query += " AND active = 1"
	}
	query += " ORDER BY name"

	pattern := "%" + strings.ToLower(term) + "%"
	rows, err := s.db.QueryContext(ctx, query, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListAll returns every product, optionally restricted to active ones.
func (s *CatalogStore) ListAll(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListNames returns the names of all active products, the whitelist the
// entity extractor matches against.
func (s *CatalogStore) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM products WHERE active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LowStock returns active products at or below their minimum stock.
func (s *CatalogStore) LowStock(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE active = 1 AND stock <= min_stock ORDER BY stock`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// CountActive returns the number of active products.
func (s *CatalogStore) CountActive(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE active = 1`).Scan(&count)
	return count, err
}

// Insert adds a product and returns its id. Used by seeding and admin
// tooling.
func (s *CatalogStore) Insert(ctx context.Context, p domain.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (code, name, description, brand, category, price, stock, min_stock, unit, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Code, p.Name, p.Description, p.Brand, p.Category, p.Price, p.Stock, p.MinStock, p.Unit, p.Active)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateStock sets the stock level of a product.
func (s *CatalogStore) UpdateStock(ctx context.Context, id int64, stock int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, stock, id)
	return err
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var code sql.NullString
		if err := rows.Scan(&p.ID, &code, &p.Name, &p.Description, &p.Brand, &p.Category,
			&p.Price, &p.Stock, &p.MinStock, &p.Unit, &p.Active); err != nil {
			return nil, err
		}
		p.Code = code.String
		products = append(products, p)
	}
	return products, rows.Err()
}
