package main

import (
	"database/sql"
	"fmt"
	"os"

	"postboard/migrations"
	"postboard/pkg/config"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var dir string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the postboard PostgreSQL schema",
	Long: `Runs goose migrations against the database named by DB_HOST, DB_PORT,
DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE. Migrations are embedded in the
binary unless --dir points at a directory on disk.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withDB(func(db *sql.DB) error {
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Println("Migrations applied successfully")
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: withDB(func(db *sql.DB) error {
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("failed to rollback migrations: %w", err)
		}
		fmt.Println("Migrations rolled back successfully")
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	Args:  cobra.NoArgs,
	RunE: withDB(func(db *sql.DB) error {
		return goose.Status(db, dir)
	}),
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new SQL migration in --dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if dir == "." {
			return fmt.Errorf("--dir is required for create")
		}
		goose.SetBaseFS(nil)
		if err := goose.Create(nil, dir, args[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "directory with migration files (defaults to the embedded set)")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd, createCmd)
}

// withDB opens PostgreSQL and points goose at the right migration source
// before running fn.
func withDB(fn func(db *sql.DB) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if dir == "." {
			goose.SetBaseFS(migrations.FS)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("failed to set dialect: %w", err)
		}

		return fn(db)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
