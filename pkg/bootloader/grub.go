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

package bootloader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suse-edge/bootchooser/pkg/envparser"
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

const (
	grubTool = "grub-editenv"
	orderVar = "ORDER"
)

// grub backend (C6): single-file grubenv rewrite via grub-editenv.
//
// spec.md §4.6 only pins down set_state/set_primary; it leaves get_state
// and get_primary's exact variable semantics implicit, grouping GRUB with
// Barebox's "priority > 0 AND attempts > 0" formula in §3 even though GRUB
// has no priority variable of its own. This implementation resolves that
// gap by treating <bootname>_OK as the priority flag (0 or
// 1) and max_attempts-<bootname>_TRY as the remaining-attempts count,
// which is exactly what set_state's own write rules already imply.
type grub struct {
	cfg      types.Config
	registry *slots.Registry
	runner   types.Runner
	logger   types.Logger
	fs       types.FS
}

func okVar(bootname string) string  { return bootname + "_OK" }
func tryVar(bootname string) string { return bootname + "_TRY" }

func newGrub(cfg types.Config, registry *slots.Registry, runner types.Runner, logger types.Logger, fs types.FS) (Backend, error) {
	if err := requireTool(runner, grubTool); err != nil {
		return nil, err
	}
	if cfg.GrubEnvPath == "" {
		return nil, types.NewUnsupported("grub backend requires a grubenv path")
	}
	if !types.Exists(fs, cfg.GrubEnvPath) {
		return nil, types.NewUnsupported("grubenv file %q not found", cfg.GrubEnvPath)
	}
	return &grub{cfg: cfg, registry: registry, runner: runner, logger: logger, fs: fs}, nil
}

func (g *grub) read() (*envparser.Pairs, error) {
	stdout, stderr, err := g.runner.Run(grubTool, g.cfg.GrubEnvPath, "list")
	if err != nil {
		return nil, types.NewBackendError(err, string(stderr))
	}
	return envparser.Parse(string(stdout))
}

// write issues one grub-editenv set call. It takes the same ordered
// keyVal slice as the barebox backend, so the emitted argv is
// deterministic across runs (ORDER before the promoted entry's flags).
func (g *grub) write(sets []keyVal) error {
	args := []string{g.cfg.GrubEnvPath, "set"}
	for _, kv := range sets {
		args = append(args, fmt.Sprintf("%s=%s", kv.key, kv.val))
	}
	g.logger.Debugf("grub-editenv %v", args)
	_, stderr, err := g.runner.Run(grubTool, args...)
	if err != nil {
		return types.NewBackendError(err, string(stderr))
	}
	return nil
}

func (g *grub) goodFromPairs(pairs *envparser.Pairs, bootname string) (bool, error) {
	okStr, _ := pairs.Get(okVar(bootname))
	if okStr == "" {
		return false, nil
	}
	ok, err := strconv.ParseUint(okStr, 10, 32)
	if err != nil {
		return false, types.NewParseError(okVar(bootname)+" is not 0 or 1", okStr)
	}
	if ok == 0 {
		return false, nil
	}
	tryStr, _ := pairs.Get(tryVar(bootname))
	var tries uint64
	if tryStr != "" {
		tries, err = strconv.ParseUint(tryStr, 10, 32)
		if err != nil {
			return false, types.NewParseError(tryVar(bootname)+" is not a non-negative integer", tryStr)
		}
	}
	return tries < uint64(g.cfg.Attempts()), nil
}

func (g *grub) GetState(slotName string) (bool, error) {
	bootname, err := slotBootName(g.registry, slotName)
	if err != nil {
		return false, err
	}
	pairs, err := g.read()
	if err != nil {
		return false, err
	}
	return g.goodFromPairs(pairs, bootname)
}

// BadCause distinguishes an entry explicitly disabled (_OK=0) from one
// that simply ran out of its own boot attempts (_OK=1, _TRY exhausted).
func (g *grub) BadCause(slotName string) (BadCause, error) {
	bootname, err := slotBootName(g.registry, slotName)
	if err != nil {
		return CauseDisabled, err
	}
	pairs, err := g.read()
	if err != nil {
		return CauseDisabled, err
	}
	okStr, _ := pairs.Get(okVar(bootname))
	if okStr == "" || okStr == "0" {
		return CauseDisabled, nil
	}
	return CauseExhausted, nil
}

func (g *grub) GetPrimary() (string, error) {
	pairs, err := g.read()
	if err != nil {
		return "", err
	}
	raw, _ := pairs.Get(orderVar)
	order := strings.Fields(strings.TrimSpace(raw))

	for _, bootname := range order {
		good, err := g.goodFromPairs(pairs, bootname)
		if err != nil {
			return "", err
		}
		if !good {
			continue
		}
		s, ok := g.registry.SlotForBootName(bootname)
		if !ok {
			continue
		}
		return s.Name, nil
	}
	return "", types.NewNoPrimary("no ORDER entry is good")
}

func (g *grub) SetState(slotName string, good bool) error {
	bootname, err := slotBootName(g.registry, slotName)
	if err != nil {
		return err
	}
	if good {
		return g.write([]keyVal{
			{okVar(bootname), "1"},
			{tryVar(bootname), "0"},
		})
	}
	return g.write([]keyVal{
		{okVar(bootname), "0"},
	})
}

func (g *grub) SetPrimary(slotName string) error {
	bootname, err := slotBootName(g.registry, slotName)
	if err != nil {
		return err
	}

	pairs, err := g.read()
	if err != nil {
		return err
	}
	raw, _ := pairs.Get(orderVar)
	order := strings.Fields(strings.TrimSpace(raw))
	rest := make([]string, 0, len(order))
	for _, b := range order {
		if b != bootname {
			rest = append(rest, b)
		}
	}
	newOrder := append([]string{bootname}, rest...)

	return g.write([]keyVal{
		{orderVar, strings.Join(newOrder, " ")},
		{okVar(bootname), "1"},
		{tryVar(bootname), "0"},
	})
}
