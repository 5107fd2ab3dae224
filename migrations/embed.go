package migrations

import "embed"

// FS holds the versioned *.up.sql / *.down.sql files applied by internal/migrate.
//
//go:embed *.sql
var FS embed.FS
