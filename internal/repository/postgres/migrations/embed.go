package migrations

import "embed"

// FS holds the claim ledger schema.
//
//go:embed *.sql
var FS embed.FS
