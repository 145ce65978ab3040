// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperamm/pool"
)

func newPoolCmd(s *simulator) *cobra.Command {
	return &cobra.Command{
		Use:   "pool [seed]",
		Short: "Print the config and reserves of the pool created with [seed]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: seed %q", ErrInvalidStep, args[0])
			}
			return s.with(cmd.Context(), func(ctx context.Context) error {
				config, _, err := pool.ConfigAddress(seed)
				if err != nil {
					return err
				}
				state, err := s.program.Pool(ctx, config)
				if err != nil {
					return err
				}
				b, err := json.MarshalIndent(state, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			})
		},
	}
}
