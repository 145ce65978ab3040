// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newKeyCmd(s *simulator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage named keys",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create [name]",
			Short: "Create a named ed25519 key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.with(cmd.Context(), func(ctx context.Context) error {
					addr, err := keyCreateFunc(ctx, s.db, args[0])
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), addr)
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "address [name]",
			Short: "Print the address of a named key or mint",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return s.with(cmd.Context(), func(ctx context.Context) error {
					addr, err := resolve(ctx, s.db, args[0])
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cmd.OutOrStdout(), addr)
					return err
				})
			},
		},
	)
	return cmd
}
