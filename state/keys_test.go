// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasPermissions(t *testing.T) {
	tests := []struct {
		name    string
		perm    Permissions
		has     []Permissions
		missing []Permissions
	}{
		{
			name:    "none",
			perm:    None,
			has:     []Permissions{None},
			missing: []Permissions{Read, Allocate, Write, All},
		},
		{
			name:    "read",
			perm:    Read,
			has:     []Permissions{None, Read},
			missing: []Permissions{Allocate, Write, All},
		},
		{
			name:    "write implies read",
			perm:    Write,
			has:     []Permissions{Read, Write},
			missing: []Permissions{Allocate, All},
		},
		{
			name:    "all",
			perm:    All,
			has:     []Permissions{Read, Allocate, Write, All},
			missing: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			for _, p := range tt.has {
				require.True(tt.perm.Has(p))
			}
			for _, p := range tt.missing {
				require.False(tt.perm.Has(p))
			}
		})
	}
}

func TestAddPermissions(t *testing.T) {
	require := require.New(t)

	keys := make(Keys)
	keys.Add("config", Read)
	keys.Add("config", Write)
	keys.Add("vault", Allocate)

	require.Len(keys, 2)
	require.True(keys["config"].Has(Write))
	require.False(keys["config"].Has(Allocate))
	require.True(keys["vault"].Has(Allocate))
	require.False(keys["vault"].Has(Write))
}
