package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuannm151/sweetshop/internal/model"
	"github.com/tuannm151/sweetshop/internal/storage/db"
)

type CreateSweetParams struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

type SearchSweetsParams struct {
	Name     *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
}

type SweetRepository interface {
	WithDB(db db.DB) SweetRepository
	CreateSweet(ctx context.Context, params CreateSweetParams) (model.Sweet, error)
	GetSweet(ctx context.Context, id int64) (model.Sweet, error)
	// GetSweetForUpdate locks the row until the surrounding transaction
	// ends. Call it only inside db.WithTx.
	GetSweetForUpdate(ctx context.Context, id int64) (model.Sweet, error)
	GetSweetByName(ctx context.Context, name string) (model.Sweet, error)
	ListSweets(ctx context.Context) ([]model.Sweet, error)
	SearchSweets(ctx context.Context, params SearchSweetsParams) ([]model.Sweet, error)
	UpdateSweet(ctx context.Context, sweet model.Sweet) error
	DeleteSweet(ctx context.Context, id int64) error
}

type sweetRepository struct {
	db db.DB
}

func NewSweetRepository(db db.DB) SweetRepository {
	return &sweetRepository{db: db}
}

func (r sweetRepository) WithDB(db db.DB) SweetRepository {
	return &sweetRepository{db: db}
}

func (r sweetRepository) CreateSweet(ctx context.Context, params CreateSweetParams) (model.Sweet, error) {
	price, err := numericFromFloat(params.Price)
	if err != nil {
		return model.Sweet{}, err
	}

	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO sweets (name, category, price, quantity)
		VALUES (@name, @category, @price, @quantity)
		RETURNING id
	`, pgx.NamedArgs{
		"name":     params.Name,
		"category": params.Category,
		"price":    price,
		"quantity": params.Quantity,
	}).Scan(&id)
	if err != nil {
		return model.Sweet{}, fmt.Errorf("create sweet: %w", err)
	}

	return model.Sweet{
		ID:       id,
		Name:     params.Name,
		Category: params.Category,
		Price:    params.Price,
		Quantity: params.Quantity,
	}, nil
}

func (r sweetRepository) GetSweet(ctx context.Context, id int64) (model.Sweet, error) {
	return r.getSweet(ctx, `
		SELECT id, name, category, price, quantity
		FROM sweets
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
}

func (r sweetRepository) GetSweetForUpdate(ctx context.Context, id int64) (model.Sweet, error) {
	return r.getSweet(ctx, `
		SELECT id, name, category, price, quantity
		FROM sweets
		WHERE id = @id
		FOR UPDATE
	`, pgx.NamedArgs{"id": id})
}

func (r sweetRepository) GetSweetByName(ctx context.Context, name string) (model.Sweet, error) {
	return r.getSweet(ctx, `
		SELECT id, name, category, price, quantity
		FROM sweets
		WHERE name = @name
	`, pgx.NamedArgs{"name": name})
}

func (r sweetRepository) ListSweets(ctx context.Context) ([]model.Sweet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, price, quantity
		FROM sweets
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()

	return scanSweets(rows)
}

func (r sweetRepository) SearchSweets(ctx context.Context, params SearchSweetsParams) ([]model.Sweet, error) {
	conditions := []string{"TRUE"}
	args := pgx.NamedArgs{}

	if params.Name != nil {
		conditions = append(conditions, "name ILIKE '%' || @name || '%'")
		args["name"] = *params.Name
	}
	if params.Category != nil {
		conditions = append(conditions, "category ILIKE '%' || @category || '%'")
		args["category"] = *params.Category
	}
	if params.MinPrice != nil {
		conditions = append(conditions, "price >= @min_price")
		args["min_price"] = *params.MinPrice
	}
	if params.MaxPrice != nil {
		conditions = append(conditions, "price <= @max_price")
		args["max_price"] = *params.MaxPrice
	}

	query := fmt.Sprintf(`
		SELECT id, name, category, price, quantity
		FROM sweets
		WHERE %s
		ORDER BY id
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	defer rows.Close()

	return scanSweets(rows)
}

func (r sweetRepository) UpdateSweet(ctx context.Context, sweet model.Sweet) error {
	price, err := numericFromFloat(sweet.Price)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE sweets
		SET name       = @name,
		    category   = @category,
		    price      = @price,
		    quantity   = @quantity,
		    updated_at = NOW()
		WHERE id = @id
	`, pgx.NamedArgs{
		"id":       sweet.ID,
		"name":     sweet.Name,
		"category": sweet.Category,
		"price":    price,
		"quantity": sweet.Quantity,
	})
	if err != nil {
		return fmt.Errorf("update sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r sweetRepository) DeleteSweet(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sweets
		WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r sweetRepository) getSweet(ctx context.Context, query string, args pgx.NamedArgs) (model.Sweet, error) {
	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return model.Sweet{}, fmt.Errorf("get sweet: %w", err)
	}
	defer rows.Close()

	sweets, err := scanSweets(rows)
	if err != nil {
		return model.Sweet{}, err
	}
	if len(sweets) == 0 {
		return model.Sweet{}, ErrNotFound
	}

	return sweets[0], nil
}

func scanSweets(rows pgx.Rows) ([]model.Sweet, error) {
	sweets := []model.Sweet{}
	for rows.Next() {
		var (
			sweet model.Sweet
			price pgtype.Numeric
		)
		if err := rows.Scan(&sweet.ID, &sweet.Name, &sweet.Category, &price, &sweet.Quantity); err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}

		priceValue, err := price.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("convert price to float64: %w", err)
		}
		sweet.Price = priceValue.Float64

		sweets = append(sweets, sweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweets: %w", err)
	}

	return sweets, nil
}

func numericFromFloat(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(fmt.Sprintf("%.2f", f)); err != nil {
		return n, fmt.Errorf("scan price: %w", err)
	}
	return n, nil
}
