// Package db carries the postgres schema applied at server start.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
