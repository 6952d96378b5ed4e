// Package migrations holds the SQL schema for the validations store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
