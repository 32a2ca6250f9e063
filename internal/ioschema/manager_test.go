package ioschema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iodb"
	"github.com/gnames/sp2tax/internal/ioschema"
	"github.com/gnames/sp2tax/internal/iotesting"
	"github.com/gnames/sp2tax/pkg/errcode"
	"github.com/gnames/sp2tax/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewPgxOperator())
	err := mgr.Create(context.Background())
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	cfg := iotesting.GetTestConfig(t)
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	defer op.Close()

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx))
	// repeated migration is harmless
	require.NoError(t, mgr.Create(ctx))

	for _, v := range schema.TableNames() {
		ok, err := op.TableExists(ctx, v)
		require.NoError(t, err)
		assert.True(t, ok, v)
	}
}
