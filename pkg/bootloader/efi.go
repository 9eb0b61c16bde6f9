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
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

const efibootmgrTool = "efibootmgr"

var (
	bootEntryLine = regexp.MustCompile(`^Boot([0-9A-Fa-f]{4})(\*?)\s+(.*)$`)
	bootOrderLine = regexp.MustCompile(`^BootOrder:\s*(.*)$`)
)

// efi backend (C7): UEFI BootOrder/BootXXXX entries, parsed from
// efibootmgr's own text output — the only transactional channel spec.md
// §1/§6 allows this backend to use.
type efi struct {
	registry *slots.Registry
	runner   types.Runner
	logger   types.Logger
}

type efiEntry struct {
	id     string
	active bool
	label  string
}

func newEFI(cfg types.Config, registry *slots.Registry, runner types.Runner, logger types.Logger) (Backend, error) {
	if err := requireTool(runner, efibootmgrTool); err != nil {
		return nil, err
	}
	return &efi{registry: registry, runner: runner, logger: logger}, nil
}

func (e *efi) read() ([]efiEntry, []string, error) {
	stdout, stderr, err := e.runner.Run(efibootmgrTool)
	if err != nil {
		return nil, nil, types.NewBackendError(err, string(stderr))
	}

	var entries []efiEntry
	var order []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimRight(line, "\r")
		if m := bootEntryLine.FindStringSubmatch(line); m != nil {
			entries = append(entries, efiEntry{
				id:     strings.ToUpper(m[1]),
				active: m[2] == "*",
				label:  strings.TrimSpace(m[3]),
			})
			continue
		}
		if m := bootOrderLine.FindStringSubmatch(line); m != nil {
			for _, id := range strings.Split(m[1], ",") {
				id = strings.ToUpper(strings.TrimSpace(id))
				if id != "" {
					order = append(order, id)
				}
			}
		}
	}
	return entries, order, nil
}

func entryForLabel(entries []efiEntry, label string) (efiEntry, bool) {
	for _, e := range entries {
		if e.label == label {
			return e, true
		}
	}
	return efiEntry{}, false
}

func entryForID(entries []efiEntry, id string) (efiEntry, bool) {
	for _, e := range entries {
		if e.id == id {
			return e, true
		}
	}
	return efiEntry{}, false
}

func (e *efi) GetState(slotName string) (bool, error) {
	bootname, err := slotBootName(e.registry, slotName)
	if err != nil {
		return false, err
	}
	entries, _, err := e.read()
	if err != nil {
		return false, err
	}
	entry, ok := entryForLabel(entries, bootname)
	if !ok {
		return false, nil
	}
	return entry.active, nil
}

// BadCause always reports CauseDisabled: efibootmgr's active/inactive flag
// has no attempt counter, so EFI entries never age out on their own the
// way Barebox/U-Boot/GRUB slots do.
func (e *efi) BadCause(slotName string) (BadCause, error) {
	if _, err := slotBootName(e.registry, slotName); err != nil {
		return CauseDisabled, err
	}
	return CauseDisabled, nil
}

func (e *efi) GetPrimary() (string, error) {
	entries, order, err := e.read()
	if err != nil {
		return "", err
	}
	for _, id := range order {
		entry, ok := entryForID(entries, id)
		if !ok || !entry.active {
			continue
		}
		s, ok := e.registry.SlotForBootName(entry.label)
		if !ok {
			continue
		}
		return s.Name, nil
	}
	return "", types.NewNoPrimary("no BootOrder entry is active and maps to a configured slot")
}

func (e *efi) entryFor(slotName string) (efiEntry, error) {
	bootname, err := slotBootName(e.registry, slotName)
	if err != nil {
		return efiEntry{}, err
	}
	entries, _, err := e.read()
	if err != nil {
		return efiEntry{}, err
	}
	entry, ok := entryForLabel(entries, bootname)
	if !ok {
		return efiEntry{}, types.NewBackendError(errors.Errorf("no efi boot entry labeled %q", bootname), "")
	}
	return entry, nil
}

func (e *efi) SetState(slotName string, good bool) error {
	entry, err := e.entryFor(slotName)
	if err != nil {
		return err
	}
	flag := "-a"
	if !good {
		flag = "-A"
	}
	_, stderr, err := e.runner.Run(efibootmgrTool, "-b", entry.id, flag)
	if err != nil {
		return types.NewBackendError(err, string(stderr))
	}
	return nil
}

func (e *efi) SetPrimary(slotName string) error {
	entry, err := e.entryFor(slotName)
	if err != nil {
		return err
	}
	_, order, err := e.read()
	if err != nil {
		return err
	}
	rest := make([]string, 0, len(order))
	for _, id := range order {
		if id != entry.id {
			rest = append(rest, id)
		}
	}
	newOrder := append([]string{entry.id}, rest...)

	_, stderr, err := e.runner.Run(efibootmgrTool, "-o", strings.Join(newOrder, ","))
	if err != nil {
		return types.NewBackendError(err, string(stderr))
	}
	return nil
}
