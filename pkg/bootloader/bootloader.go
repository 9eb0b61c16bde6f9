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

// Package bootloader implements the uniform slot-selection contract (C8)
// on top of four concrete bootloader backends: Barebox, U-Boot, GRUB and
// EFI. Dynamic dispatch replaces the source's function-pointer table: a
// backend is just a Backend realized at construction time from config.
package bootloader

import (
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

// Backend is the capability set every concrete bootloader realizes. All
// four operations take a slot by configuration name and resolve it through
// the Registry the backend was constructed with.
type Backend interface {
	// GetState reports whether the slot is currently bootable.
	GetState(slotName string) (bool, error)
	// GetPrimary returns the configuration name of the slot the
	// bootloader will select on next boot.
	GetPrimary() (string, error)
	// SetState marks the slot good or bad.
	SetState(slotName string, good bool) error
	// SetPrimary promotes the slot to primary.
	SetPrimary(slotName string) error
	// BadCause reports why GetState currently reports the slot not good.
	// Callers should only consult it once GetState has returned false;
	// behavior is backend-defined for a good slot.
	BadCause(slotName string) (BadCause, error)
}

// BadCause distinguishes a slot explicitly marked bad from one that ran
// out of its own boot attempts.
type BadCause int

const (
	// CauseDisabled marks a slot explicitly marked bad (priority/OK
	// zeroed, or removed from the boot order).
	CauseDisabled BadCause = iota
	// CauseExhausted marks a slot still enabled that ran out of its own
	// remaining boot attempts.
	CauseExhausted
)

func (c BadCause) String() string {
	if c == CauseExhausted {
		return "exhausted"
	}
	return "disabled"
}

// Names of the supported bootloaders, matched against Config.Bootloader.
const (
	Barebox = "barebox"
	UBoot   = "uboot"
	Grub    = "grub"
	EFI     = "efi"
)

// New selects and constructs the Backend named by cfg.Bootloader. It
// returns Unsupported for an unrecognized name or when the backend's
// required tool isn't resolvable on PATH — checked eagerly here so
// Unsupported surfaces before any state is ever touched.
func New(cfg types.Config, registry *slots.Registry, runner types.Runner, logger types.Logger) (Backend, error) {
	switch cfg.Bootloader {
	case Barebox:
		return newBarebox(cfg, registry, runner, logger)
	case UBoot:
		return newUBoot(cfg, registry, runner, logger)
	case Grub:
		return newGrub(cfg, registry, runner, logger, types.NewRealFS())
	case EFI:
		return newEFI(cfg, registry, runner, logger)
	default:
		return nil, types.NewUnsupported("unknown bootloader %q", cfg.Bootloader)
	}
}

func requireTool(runner types.Runner, tool string) error {
	if !runner.CommandExists(tool) {
		return types.NewUnsupported("required tool %q not found on PATH", tool)
	}
	return nil
}

func slotBootName(registry *slots.Registry, slotName string) (string, error) {
	s, ok := registry.Lookup(slotName)
	if !ok {
		return "", types.NewNotBootable(slotName)
	}
	if !s.HasBootName() {
		return "", types.NewNotBootable(slotName)
	}
	return s.BootName, nil
}
