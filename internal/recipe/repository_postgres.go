package recipe

import (
	"context"
	"encoding/json"
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

// Ingredient lines live in a JSONB column: they are ordered,
// position-addressed, and always read and written with their recipe.

func (r *PostgresRepository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, portions, price,
		       prep_time_minutes, labor_cost, ingredients
		FROM recipes
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *rec)
	}
	return recipes, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Recipe, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, category, portions, price,
		       prep_time_minutes, labor_cost, ingredients
		FROM recipes
		WHERE id = $1
	`, id)

	rec, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRepository) Save(ctx context.Context, rec *Recipe) error {
	lines, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO recipes (
			id, name, category, portions, price,
			prep_time_minutes, labor_cost, ingredients, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name              = EXCLUDED.name,
			category          = EXCLUDED.category,
			portions          = EXCLUDED.portions,
			price             = EXCLUDED.price,
			prep_time_minutes = EXCLUDED.prep_time_minutes,
			labor_cost        = EXCLUDED.labor_cost,
			ingredients       = EXCLUDED.ingredients,
			updated_at        = NOW()
	`,
		rec.ID,
		rec.Name,
		rec.Category,
		rec.Portions,
		rec.Price,
		rec.PrepTimeMinutes,
		rec.LaborCost,
		lines,
	)
	return err
}

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var rec Recipe
	var lines []byte

	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Category,
		&rec.Portions,
		&rec.Price,
		&rec.PrepTimeMinutes,
		&rec.LaborCost,
		&lines,
	)
	if err != nil {
		return nil, err
	}

	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &rec.Ingredients); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}
