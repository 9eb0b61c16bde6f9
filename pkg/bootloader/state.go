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
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

// EntryState is the bootloader-agnostic view of a slot, derived from
// GetState/GetPrimary rather than carried as backend state of its own.
type EntryState int

const (
	// Absent marks a slot with no bootname. A slot whose bootname has no
	// entry in the backend is not reported as Absent; it is classified
	// from GetState/BadCause like any other slot.
	Absent EntryState = iota
	// BadDisabled marks a slot explicitly marked bad.
	BadDisabled
	// BadExhausted marks a slot that ran out of its own boot attempts
	// without ever being explicitly disabled.
	BadExhausted
	// GoodNotPrimary marks a slot the backend reports as good, but which
	// isn't the one the bootloader will select next.
	GoodNotPrimary
	// Primary marks the slot the bootloader will select on next boot.
	Primary
)

func (s EntryState) String() string {
	switch s {
	case Absent:
		return "absent"
	case BadDisabled:
		return "bad-disabled"
	case BadExhausted:
		return "bad-exhausted"
	case GoodNotPrimary:
		return "good-not-primary"
	case Primary:
		return "primary"
	default:
		return "unknown"
	}
}

// DescribeState classifies every slot in registry against backend, for
// diagnostics. It never mutates backend state and tolerates GetPrimary
// returning NoPrimary (every slot is then at most GoodNotPrimary).
func DescribeState(backend Backend, registry *slots.Registry) (map[string]EntryState, error) {
	primary, err := backend.GetPrimary()
	if err != nil && !types.IsKind(err, types.NoPrimary) {
		return nil, err
	}

	out := make(map[string]EntryState, len(registry.All()))
	for _, s := range registry.All() {
		if !s.HasBootName() {
			out[s.Name] = Absent
			continue
		}
		good, err := backend.GetState(s.Name)
		if err != nil {
			return nil, err
		}
		switch {
		case s.Name == primary:
			out[s.Name] = Primary
		case good:
			out[s.Name] = GoodNotPrimary
		default:
			cause, err := backend.BadCause(s.Name)
			if err != nil {
				return nil, err
			}
			if cause == CauseExhausted {
				out[s.Name] = BadExhausted
			} else {
				out[s.Name] = BadDisabled
			}
		}
	}
	return out, nil
}
