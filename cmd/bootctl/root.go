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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suse-edge/bootchooser/internal/version"
	"github.com/suse-edge/bootchooser/pkg/types"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bootctl",
		Short:   "Inspect and drive A/B boot-slot selection across bootloader backends",
		Version: version.GetVersion(),
	}
	cmd.PersistentFlags().String("config", "/etc/bootchooser/config.yaml", "Path to the config file")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("bootloader", "", "Override the configured bootloader backend")
	cmd.PersistentFlags().String("grubenv", "", "Override the configured grubenv path")
	cmd.PersistentFlags().Uint32("max-attempts", 0, "Override the configured max boot attempts")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	cmd.AddCommand(
		NewGetStateCmd(),
		NewGetPrimaryCmd(),
		NewSetStateCmd(),
		NewSetPrimaryCmd(),
		NewStatusCmd(),
	)
	return cmd
}

var rootCmd = NewRootCmd()

// Execute runs the root command, mapping a types.Error's Kind to a
// distinct process exit code so scripts can branch on failure reason
// without scraping stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var kind types.Kind
	if !errAsKind(err, &kind) {
		return 1
	}
	switch kind {
	case types.Unsupported:
		return 2
	case types.NotBootable:
		return 3
	case types.BackendError:
		return 4
	case types.ParseError:
		return 5
	case types.NoPrimary:
		return 6
	default:
		return 1
	}
}

func errAsKind(err error, kind *types.Kind) bool {
	for k := types.Unsupported; k <= types.NoPrimary; k++ {
		if types.IsKind(err, k) {
			*kind = k
			return true
		}
	}
	return false
}

func newLogger() types.Logger {
	logger := types.NewLogger()
	if viper.GetBool("debug") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
