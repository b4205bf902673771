// Package db embeds the storefront schema so the server and the seed
// tooling can apply it without shipping loose SQL files.
package db

import _ "embed"

// Schema contains the DDL statements for all storefront tables.
//
//go:embed migrations/001_schema.sql
var Schema string
