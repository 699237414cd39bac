// Package migrations встраивает goose-миграции схемы.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
