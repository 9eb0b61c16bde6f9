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

// Package slots provides the read-only slot lookup view (C1) the bootloader
// backends use to map between a slot's configuration name and the
// bootloader's own bootname.
package slots

import "github.com/suse-edge/bootchooser/pkg/types"

// Registry is a read-only, in-memory view over a configured slot set. It
// holds no bootloader state of its own — only the static, config-time
// slot list supplied by an external collaborator.
type Registry struct {
	byName []types.Slot
	index  map[string]int
}

// New builds a Registry from the given slots, preserving their order for
// the stable tie-breaking spec.md §4.4 requires of GetPrimary.
func New(slots []types.Slot) *Registry {
	r := &Registry{
		byName: append([]types.Slot(nil), slots...),
		index:  make(map[string]int, len(slots)),
	}
	for i, s := range r.byName {
		r.index[s.Name] = i
	}
	return r
}

// Lookup returns the slot with the given configuration name.
func (r *Registry) Lookup(name string) (types.Slot, bool) {
	i, ok := r.index[name]
	if !ok {
		return types.Slot{}, false
	}
	return r.byName[i], true
}

// ByClass returns every slot tagged with the given role, in configuration
// order.
func (r *Registry) ByClass(class string) []types.Slot {
	var out []types.Slot
	for _, s := range r.byName {
		if s.Class == class {
			out = append(out, s)
		}
	}
	return out
}

// All returns every configured slot, in configuration order.
func (r *Registry) All() []types.Slot {
	return append([]types.Slot(nil), r.byName...)
}

// BootNameFor returns the bootname a configuration slot name maps to.
func (r *Registry) BootNameFor(name string) (string, bool) {
	s, ok := r.Lookup(name)
	if !ok || !s.HasBootName() {
		return "", false
	}
	return s.BootName, true
}

// SlotForBootName finds the configured slot whose BootName matches, used
// by U-Boot/EFI's "does this bootloader entry map to a configured slot"
// strictness check (spec.md §4.5).
func (r *Registry) SlotForBootName(bootname string) (types.Slot, bool) {
	for _, s := range r.byName {
		if s.BootName == bootname {
			return s, true
		}
	}
	return types.Slot{}, false
}
