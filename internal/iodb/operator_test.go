package iodb_test

import (
	"context"
	"testing"

	"github.com/gnames/sp2tax/internal/iodb"
	"github.com/gnames/sp2tax/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL.
//
// Database settings come from defaults (postgres/postgres@localhost),
// the database name is always "sp2tax_test". Set SP2TAX_TEST_DB_HOST to
// use another server.
//
// Docker example:
//   docker run -d -e POSTGRES_PASSWORD=postgres -e POSTGRES_DB=sp2tax_test \
//     -p 5432:5432 postgres:17
//
// Skip these tests with:
//   go test -short

func TestPgxOperatorConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestConfig(t)
	err := op.Connect(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()

	exists, err := op.TableExists(ctx, "nonexistent_table")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestPgxOperatorConnectInvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	op := iodb.NewPgxOperator()
	ctx := context.Background()

	cfg := iotesting.GetTestConfig(t)
	cfg.Database.Host = "invalid-host-that-does-not-exist"

	err := op.Connect(ctx, &cfg.Database)
	assert.Error(t, err)
}

func TestPgxOperatorNotConnected(t *testing.T) {
	op := iodb.NewPgxOperator()
	ctx := context.Background()

	assert.Nil(t, op.Pool())

	_, err := op.TableExists(ctx, "nodes")
	require.Error(t, err)

	assert.NoError(t, op.Close())
}
