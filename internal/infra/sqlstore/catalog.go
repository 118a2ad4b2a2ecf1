package sqlstore

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
)

const productColumns = `id, name, price, stock, min_stock, created_at`

const ingredientColumns = `id, name, unit, stock, created_at`

// GetProduct retrieves a product by ID.
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.getProduct(ctx, `id`, id)
}

// FindProductByName retrieves a product by exact name.
func (s *Store) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	return s.getProduct(ctx, `name`, name)
}

func (s *Store) getProduct(ctx context.Context, col, v string) (*domain.Product, error) {
	var p domain.Product
	found, err := s.get(ctx, &p, `SELECT `+productColumns+` FROM products WHERE `+col+` = ?`, v)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

// ListProducts retrieves all products ordered by name.
func (s *Store) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	if err := s.selectAll(ctx, &out, `SELECT `+productColumns+` FROM products ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// CreateProduct inserts a product, assigning an ID if it has none.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}
	err := s.exec(ctx, `INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Stock, p.MinStock, utc(p.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("product %q: %w", p.Name, domain.ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product. Ingredient links cascade; templates and
// order items must be gone already.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// GetIngredient retrieves an ingredient by ID.
func (s *Store) GetIngredient(ctx context.Context, id string) (*domain.Ingredient, error) {
	return s.getIngredient(ctx, `id`, id)
}

// FindIngredientByName retrieves an ingredient by exact name.
func (s *Store) FindIngredientByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	return s.getIngredient(ctx, `name`, name)
}

func (s *Store) getIngredient(ctx context.Context, col, v string) (*domain.Ingredient, error) {
	var i domain.Ingredient
	found, err := s.get(ctx, &i, `SELECT `+ingredientColumns+` FROM ingredients WHERE `+col+` = ?`, v)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &i, nil
}

// ListIngredients retrieves all ingredients ordered by name.
func (s *Store) ListIngredients(ctx context.Context) ([]*domain.Ingredient, error) {
	var out []*domain.Ingredient
	if err := s.selectAll(ctx, &out, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return out, nil
}

// CreateIngredient inserts an ingredient, assigning an ID if it has none.
func (s *Store) CreateIngredient(ctx context.Context, i *domain.Ingredient) error {
	if i.ID == "" {
		i.ID = newID()
	}
	err := s.exec(ctx, `INSERT INTO ingredients (`+ingredientColumns+`) VALUES (?, ?, ?, ?, ?)`,
		i.ID, i.Name, i.Unit, i.Stock, utc(i.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("ingredient %q: %w", i.Name, domain.ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// DeleteIngredient removes an ingredient. Product links cascade.
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	if err := s.exec(ctx, `DELETE FROM ingredients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}

// LinkIngredient records that a product uses an ingredient, replacing the
// quantity of an existing link.
func (s *Store) LinkIngredient(ctx context.Context, l *domain.ProductIngredient) error {
	err := s.exec(ctx, `
		INSERT INTO product_ingredients (product_id, ingredient_id, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT(product_id, ingredient_id) DO UPDATE SET
			quantity = excluded.quantity`,
		l.ProductID, l.IngredientID, l.Quantity)
	if err != nil {
		return fmt.Errorf("link ingredient: %w", err)
	}
	return nil
}

// ListProductIngredients retrieves the ingredient links of a product.
func (s *Store) ListProductIngredients(ctx context.Context, productID string) ([]*domain.ProductIngredient, error) {
	var out []*domain.ProductIngredient
	err := s.selectAll(ctx, &out, `SELECT product_id, ingredient_id, quantity
		FROM product_ingredients WHERE product_id = ? ORDER BY rowid`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product ingredients: %w", err)
	}
	return out, nil
}
