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

	"github.com/spf13/cobra"
)

func NewGetStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-state SLOT",
		Short: "Report whether a slot is currently bootable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			backend, _, err := buildBackend(logger, cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			good, err := backend.GetState(args[0])
			if err != nil {
				return err
			}
			if good {
				fmt.Fprintln(cmd.OutOrStdout(), "good")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "bad")
			}
			return nil
		},
	}
}
