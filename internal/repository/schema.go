package repository

import _ "embed"

// Schema is the full DDL for the service, applied by cmd/apply-schema.
//
//go:embed schema.sql
var Schema string
