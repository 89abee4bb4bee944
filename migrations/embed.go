// Package migrations holds the versioned PostgreSQL schema applied by
// cmd/migrate. Development runs on SQLite use gorm AutoMigrate instead.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
