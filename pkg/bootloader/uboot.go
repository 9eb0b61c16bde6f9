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

	multierror "github.com/hashicorp/go-multierror"

	"github.com/suse-edge/bootchooser/pkg/envparser"
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

const (
	fwPrintEnv = "fw_printenv"
	fwSetEnv   = "fw_setenv"

	bootOrderVar = "BOOT_ORDER"
)

// uboot backend (C5): order-list-based, via fw_printenv/fw_setenv. Bootname
// case is verbatim everywhere — no folding.
type uboot struct {
	cfg      types.Config
	registry *slots.Registry
	runner   types.Runner
	logger   types.Logger
}

func newUBoot(cfg types.Config, registry *slots.Registry, runner types.Runner, logger types.Logger) (Backend, error) {
	if err := requireTool(runner, fwPrintEnv); err != nil {
		return nil, err
	}
	if err := requireTool(runner, fwSetEnv); err != nil {
		return nil, err
	}
	return &uboot{cfg: cfg, registry: registry, runner: runner, logger: logger}, nil
}

func leftVar(bootname string) string {
	return fmt.Sprintf("BOOT_%s_LEFT", bootname)
}

func (u *uboot) readAll() (*envparser.Pairs, error) {
	stdout, stderr, err := u.runner.Run(fwPrintEnv)
	if err != nil {
		return nil, types.NewBackendError(err, string(stderr))
	}
	return envparser.Parse(string(stdout))
}

func bootOrderList(pairs *envparser.Pairs) []string {
	raw, _ := pairs.Get(bootOrderVar)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

func leftFor(pairs *envparser.Pairs, bootname string) (uint32, error) {
	raw, ok := pairs.Get(leftVar(bootname))
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, types.NewParseError(leftVar(bootname)+" is not a non-negative integer", raw)
	}
	return uint32(n), nil
}

func (u *uboot) setEnv(name, value string) error {
	u.logger.Debugf("fw_setenv %s %s", name, value)
	_, stderr, err := u.runner.Run(fwSetEnv, name, value)
	if err != nil {
		return types.NewBackendError(err, string(stderr))
	}
	return nil
}

func (u *uboot) GetState(slotName string) (bool, error) {
	bootname, err := slotBootName(u.registry, slotName)
	if err != nil {
		return false, err
	}
	pairs, err := u.readAll()
	if err != nil {
		return false, err
	}
	order := bootOrderList(pairs)
	inOrder := false
	for _, b := range order {
		if b == bootname {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return false, nil
	}
	left, err := leftFor(pairs, bootname)
	if err != nil {
		return false, err
	}
	return left > 0, nil
}

// BadCause distinguishes an entry explicitly disabled (removed from
// BOOT_ORDER by SetState(false)) from one still in BOOT_ORDER that simply
// ran out of its own boot attempts.
func (u *uboot) BadCause(slotName string) (BadCause, error) {
	bootname, err := slotBootName(u.registry, slotName)
	if err != nil {
		return CauseDisabled, err
	}
	pairs, err := u.readAll()
	if err != nil {
		return CauseDisabled, err
	}
	for _, b := range bootOrderList(pairs) {
		if b == bootname {
			return CauseExhausted, nil
		}
	}
	return CauseDisabled, nil
}

func (u *uboot) GetPrimary() (string, error) {
	pairs, err := u.readAll()
	if err != nil {
		return "", err
	}
	order := bootOrderList(pairs)

	for _, bootname := range order {
		left, err := leftFor(pairs, bootname)
		if err != nil {
			return "", err
		}
		if left == 0 {
			continue
		}
		s, ok := u.registry.SlotForBootName(bootname)
		if !ok {
			return "", types.NewParseError("BOOT_ORDER entry does not map to any configured slot", bootname)
		}
		return s.Name, nil
	}
	return "", types.NewNoPrimary("no BOOT_ORDER entry has attempts remaining")
}

func (u *uboot) SetState(slotName string, good bool) error {
	bootname, err := slotBootName(u.registry, slotName)
	if err != nil {
		return err
	}

	if good {
		return u.setEnv(leftVar(bootname), strconv.FormatUint(uint64(u.cfg.Attempts()), 10))
	}

	pairs, err := u.readAll()
	if err != nil {
		return err
	}
	order := bootOrderList(pairs)
	newOrder := make([]string, 0, len(order))
	for _, b := range order {
		if b != bootname {
			newOrder = append(newOrder, b)
		}
	}

	var errs *multierror.Error
	if err := u.setEnv(bootOrderVar, strings.Join(newOrder, " ")); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := u.setEnv(leftVar(bootname), "0"); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func (u *uboot) SetPrimary(slotName string) error {
	bootname, err := slotBootName(u.registry, slotName)
	if err != nil {
		return err
	}

	pairs, err := u.readAll()
	if err != nil {
		return err
	}
	order := bootOrderList(pairs)
	rest := make([]string, 0, len(order))
	for _, b := range order {
		if b != bootname {
			rest = append(rest, b)
		}
	}
	newOrder := append([]string{bootname}, rest...)

	var errs *multierror.Error
	if err := u.setEnv(bootOrderVar, strings.Join(newOrder, " ")); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := u.setEnv(leftVar(bootname), strconv.FormatUint(uint64(u.cfg.Attempts()), 10)); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}
