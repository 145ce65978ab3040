// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"
)

func TestMemoryDatabase(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	db := NewMemoryDatabase()

	_, err := db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Insert(ctx, []byte("a"), []byte{1}))
	require.NoError(db.Write(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Nothing[[]byte](),
		"b": maybe.Some([]byte{2}),
	}))
	_, err = db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	v, err := db.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte{2}, v)

	// returned values are copies
	v[0] = 9
	v, err = db.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	require.Equal(1, db.Len())

	require.NoError(db.Close())
	_, err = db.GetValue(ctx, []byte("b"))
	require.ErrorIs(err, ErrClosed)
}
