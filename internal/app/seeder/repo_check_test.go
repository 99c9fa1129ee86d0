package seeder_test

import (
	"github.com/heartmarshall/gematria/internal/adapter/postgres/word"
	"github.com/heartmarshall/gematria/internal/app/seeder"
	"github.com/heartmarshall/gematria/internal/gematria"
)

// Compile-time checks for the pipeline's collaborators.
var (
	_ seeder.WordBulkRepo = (*word.Repo)(nil)
	_ seeder.Calculator   = (*gematria.Engine)(nil)
)
