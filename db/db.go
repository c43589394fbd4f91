package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// UsersDB owns the database handle for the user record store. It is opened
// once at process start and closed on shutdown.
type UsersDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewUsersDB is a constructor that initializes UsersDB with DB and Log
func NewUsersDB(log *zerolog.Logger) (*UsersDB, error) {
	// Get the database connection string from the environment
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Error().Msg("DATABASE_URL environment variable is not set")
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	// Open the database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		return nil, err
	}

	return &UsersDB{
		DB:  db,
		Log: log,
	}, nil
}

func (db *UsersDB) Close() error {
	if err := db.DB.Close(); err != nil {
		return err
	}
	db.Log.Info().Msg("database connection closed")
	db.DB = nil

	return nil
}

// Migrate runs the embedded goose migrations up to the latest version.
func (db *UsersDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("error setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	db.Log.Info().Msg("migrations applied")
	return nil
}
