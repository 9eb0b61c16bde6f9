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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewSetPrimaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-primary SLOT",
		Short: "Promote a slot to be selected on next boot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			backend, _, err := buildBackend(logger, cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			if err := backend.SetPrimary(args[0]); err != nil {
				return errors.Wrapf(err, "promoting %q to primary", args[0])
			}
			return nil
		},
	}
}
