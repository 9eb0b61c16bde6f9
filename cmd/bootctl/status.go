/*
Copyright © 2022 - 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/suse-edge/bootchooser/pkg/bootloader"
)

// NewStatusCmd prints a diagnostic table of every configured slot's
// EntryState, supplementing the distilled spec with the state dump
// original_source's bootchooser.c test fixtures print for debugging.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print every configured slot's state",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			backend, registry, err := buildBackend(logger, cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			states, err := bootloader.DescribeState(backend, registry)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLOT\tSTATE")
			for _, s := range registry.All() {
				fmt.Fprintf(w, "%s\t%s\n", s.Name, states[s.Name])
			}
			return w.Flush()
		},
	}
}
