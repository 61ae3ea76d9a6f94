package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	// -------------------------------
	// ACCOUNTS
	// -------------------------------
	accountsSQL := `
		CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'BOOKKEEPER',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, accountsSQL); err != nil {
		return err
	}

	// -------------------------------
	// INGREDIENT CATALOG
	// -------------------------------
	ingredientsSQL := `
		CREATE TABLE IF NOT EXISTS ingredients (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT '',
			unit VARCHAR(50) NOT NULL DEFAULT '',
			cost_per_unit NUMERIC(12,4) NOT NULL DEFAULT 0,
			supplier VARCHAR(255) NULL,
			notes TEXT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, ingredientsSQL); err != nil {
		return err
	}

	// -------------------------------
	// RECIPES (ingredient lines as JSONB)
	// -------------------------------
	recipesSQL := `
		CREATE TABLE IF NOT EXISTS recipes (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100) NOT NULL DEFAULT '',
			portions INT NOT NULL DEFAULT 1,
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			prep_time_minutes NUMERIC(8,2) NULL,
			labor_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			ingredients JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, recipesSQL); err != nil {
		return err
	}

	// -------------------------------
	// DEBT ACCOUNTS
	// -------------------------------
	debtsSQL := `
		CREATE TABLE IF NOT EXISTS debts (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			original_balance NUMERIC(14,2) NOT NULL,
			current_balance NUMERIC(14,2) NOT NULL,
			interest_rate NUMERIC(6,3) NULL,
			monthly_payment NUMERIC(12,2) NULL
		)
	`
	if _, err := db.Exec(ctx, debtsSQL); err != nil {
		return err
	}

	// -------------------------------
	// FINANCIAL PERIODS + BENCHMARKS
	// -------------------------------
	periodsSQL := `
		CREATE TABLE IF NOT EXISTS financial_periods (
			label VARCHAR(100) PRIMARY KEY,
			period_end DATE NOT NULL,
			revenue NUMERIC(14,2) NOT NULL DEFAULT 0,
			cogs NUMERIC(14,2) NOT NULL DEFAULT 0,
			payroll NUMERIC(14,2) NOT NULL DEFAULT 0,
			rent NUMERIC(14,2) NOT NULL DEFAULT 0,
			total_expenses NUMERIC(14,2) NOT NULL DEFAULT 0,
			net_income NUMERIC(14,2) NOT NULL DEFAULT 0
		)
	`
	if _, err := db.Exec(ctx, periodsSQL); err != nil {
		return err
	}

	benchmarksSQL := `
		CREATE TABLE IF NOT EXISTS benchmarks (
			metric VARCHAR(100) PRIMARY KEY,
			value NUMERIC(12,3) NOT NULL,
			scale_min NUMERIC(12,3) NOT NULL DEFAULT 0,
			scale_max NUMERIC(12,3) NOT NULL DEFAULT 100,
			industry_low NUMERIC(12,3) NULL,
			industry_high NUMERIC(12,3) NULL
		)
	`
	if _, err := db.Exec(ctx, benchmarksSQL); err != nil {
		return err
	}

	// -------------------------------
	// SOURCE DOCUMENT ARCHIVE
	// -------------------------------
	documentsSQL := `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			filename VARCHAR(500) NOT NULL,
			object_key VARCHAR(500) NOT NULL,
			url VARCHAR(1000) NOT NULL,
			uploaded_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(ctx, documentsSQL); err != nil {
		return err
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
