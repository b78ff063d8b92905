// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the MySQL migrations of the view counter, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
