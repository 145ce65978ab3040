// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	require := require.New(t)

	k, ok := Encode([]byte("config"), 130)
	require.True(ok)
	require.True(Valid(k))
	chunks, ok := MaxChunks(k)
	require.True(ok)
	require.Equal(uint16(3), chunks)
	require.Equal([]byte("config"), k[:len(k)-2])
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)

	k := EncodeChunks([]byte{0x1}, 1)
	require.True(VerifyValue(k, nil))
	require.True(VerifyValue(k, bytes.Repeat([]byte{0xa}, 63)))
	require.False(VerifyValue(k, bytes.Repeat([]byte{0xa}, 64)))
	require.False(VerifyValue([]byte{0x1}, []byte{0xa}))
}

func TestEncodeChunksDoesNotAlias(t *testing.T) {
	require := require.New(t)

	base := make([]byte, 1, 8)
	a := EncodeChunks(base, 1)
	b := EncodeChunks(base, 2)
	require.NotEqual(a, b)
}
