// Package migrations embeds the goose SQL migrations. The seed
// directory holds optional demo data and is versioned separately from
// the schema.
package migrations

import "embed"

//go:embed *.sql seed/*.sql
var FS embed.FS
