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
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/suse-edge/bootchooser/pkg/bootloader"
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

// loadConfig reads the YAML file named by the --config flag into a
// types.Config, then layers any explicitly-set --bootloader/--grubenv/
// --max-attempts flag onto it. Env vars prefixed BOOTCTL_ override file
// values, matching the teacher's viper.AutomaticEnv convention.
func loadConfig(flags *pflag.FlagSet) (types.Config, error) {
	var cfg types.Config

	path := viper.GetString("config")
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("BOOTCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return cfg, errors.Wrapf(err, "reading config file %q", path)
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding config")
	}

	overrides := flagOverrides(flags)
	if len(overrides) > 0 {
		if err := mapstructure.Decode(overrides, &cfg); err != nil {
			return cfg, errors.Wrap(err, "applying flag overrides")
		}
	}
	return cfg, nil
}

// flagOverrides collects only the flags the caller actually set, keyed by
// the mapstructure tag name types.Config expects, so an unset flag never
// clobbers a value already loaded from the config file.
func flagOverrides(flags *pflag.FlagSet) map[string]interface{} {
	overrides := map[string]interface{}{}
	if flags == nil {
		return overrides
	}
	if flags.Changed("bootloader") {
		v, _ := flags.GetString("bootloader")
		overrides["bootloader"] = v
	}
	if flags.Changed("grubenv") {
		v, _ := flags.GetString("grubenv")
		overrides["grubenv"] = v
	}
	if flags.Changed("max-attempts") {
		v, _ := flags.GetUint32("max-attempts")
		overrides["max_attempts"] = v
	}
	return overrides
}

// buildBackend loads config, constructs the slot registry, and dispatches
// to the configured bootloader backend in one step, for subcommands that
// need nothing else.
func buildBackend(logger types.Logger, flags *pflag.FlagSet) (bootloader.Backend, *slots.Registry, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	registry := slots.New(cfg.Slots)
	runner := types.RealRunner{Logger: logger}
	backend, err := bootloader.New(cfg, registry, runner, logger)
	if err != nil {
		return nil, nil, err
	}
	return backend, registry, nil
}
