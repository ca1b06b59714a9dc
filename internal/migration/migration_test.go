package migration

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"featurecard/internal/errors"
)

type fakeMigrator struct {
	err  error
	runs int
}

func (m *fakeMigrator) Run(ctx context.Context, db *sqlx.DB) error {
	m.runs++
	return m.err
}

func (m *fakeMigrator) Version() string { return "9.9.9" }

func TestMigrate(t *testing.T) {
	ok := &fakeMigrator{}
	require.NoError(t, Migrate(context.Background(), nil, ok))
	assert.Equal(t, 1, ok.runs)

	cause := errors.DatabaseError("relation exists", stderrors.New("pq: duplicate"))
	failing := &fakeMigrator{err: cause}
	err := Migrate(context.Background(), nil, failing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 9.9.9")
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	assert.ErrorIs(t, err, cause)
}

func TestNewRunnerVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
