// Package migrations holds the message_records schema, embedded so the
// service can migrate without a checkout on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
