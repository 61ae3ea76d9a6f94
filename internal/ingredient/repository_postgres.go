package ingredient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, category string) ([]Ingredient, error) {
	query := `
		SELECT id, name, category, unit, cost_per_unit, supplier, notes
		FROM ingredients
	`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(
			&ing.ID,
			&ing.Name,
			&ing.Category,
			&ing.Unit,
			&ing.CostPerUnit,
			&ing.Supplier,
			&ing.Notes,
		); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Ingredient, error) {
	var ing Ingredient
	err := r.db.QueryRow(ctx, `
		SELECT id, name, category, unit, cost_per_unit, supplier, notes
		FROM ingredients
		WHERE id = $1
	`, id).Scan(
		&ing.ID,
		&ing.Name,
		&ing.Category,
		&ing.Unit,
		&ing.CostPerUnit,
		&ing.Supplier,
		&ing.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ing, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ing *Ingredient) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ingredients (id, name, category, unit, cost_per_unit, supplier, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		ing.ID,
		ing.Name,
		ing.Category,
		ing.Unit,
		ing.CostPerUnit,
		ing.Supplier,
		ing.Notes,
	)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, ing *Ingredient) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE ingredients
		SET name = $2, category = $3, unit = $4,
		    cost_per_unit = $5, supplier = $6, notes = $7,
		    updated_at = NOW()
		WHERE id = $1
	`,
		ing.ID,
		ing.Name,
		ing.Category,
		ing.Unit,
		ing.CostPerUnit,
		ing.Supplier,
		ing.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category
		FROM ingredients
		WHERE category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
