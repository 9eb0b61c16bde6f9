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

	multierror "github.com/hashicorp/go-multierror"

	"github.com/suse-edge/bootchooser/pkg/envparser"
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

const bareboxTool = "barebox-state"

// barebox backend (C4): priority-ordered, batched variable-set state store.
type barebox struct {
	cfg      types.Config
	registry *slots.Registry
	runner   types.Runner
	logger   types.Logger
}

func newBarebox(cfg types.Config, registry *slots.Registry, runner types.Runner, logger types.Logger) (Backend, error) {
	if err := requireTool(runner, bareboxTool); err != nil {
		return nil, err
	}
	return &barebox{cfg: cfg, registry: registry, runner: runner, logger: logger}, nil
}

type bareboxEntry struct {
	priority  uint32
	remaining uint32
}

func (b *barebox) good(e bareboxEntry) bool {
	return e.priority > 0 && e.remaining > 0
}

func (b *barebox) dump() (*envparser.Pairs, error) {
	stdout, stderr, err := b.runner.Run(bareboxTool, "--get-dump")
	if err != nil {
		return nil, types.NewBackendError(err, string(stderr))
	}
	return envparser.Parse(string(stdout))
}

func bareboxKey(bootname, field string) string {
	return fmt.Sprintf("bootstate.%s.%s", bootname, field)
}

func (b *barebox) readEntry(pairs *envparser.Pairs, bootname string) (bareboxEntry, error) {
	var e bareboxEntry
	prioStr, ok := pairs.Get(bareboxKey(bootname, "priority"))
	if !ok {
		return e, types.NewParseError("missing priority", bareboxKey(bootname, "priority"))
	}
	prio, err := strconv.ParseUint(prioStr, 10, 32)
	if err != nil {
		return e, types.NewParseError("priority is not a non-negative integer", prioStr)
	}
	remStr, ok := pairs.Get(bareboxKey(bootname, "remaining_attempts"))
	if !ok {
		return e, types.NewParseError("missing remaining_attempts", bareboxKey(bootname, "remaining_attempts"))
	}
	rem, err := strconv.ParseUint(remStr, 10, 32)
	if err != nil {
		return e, types.NewParseError("remaining_attempts is not a non-negative integer", remStr)
	}
	e.priority = uint32(prio)
	e.remaining = uint32(rem)
	return e, nil
}

// keyVal is one --set assignment. Writes are built as an ordered slice
// rather than ranged over a map so the emitted argv is deterministic
// across runs (priority before remaining_attempts, promoted slot before
// demoted peers).
type keyVal struct {
	key string
	val string
}

func (b *barebox) write(sets []keyVal) error {
	args := make([]string, 0, len(sets)*2)
	for _, kv := range sets {
		args = append(args, "--set", fmt.Sprintf("%s=%s", kv.key, kv.val))
	}
	b.logger.Debugf("barebox-state %v", args)
	_, stderr, err := b.runner.Run(bareboxTool, args...)
	if err != nil {
		return types.NewBackendError(err, string(stderr))
	}
	return nil
}

func (b *barebox) GetState(slotName string) (bool, error) {
	bootname, err := slotBootName(b.registry, slotName)
	if err != nil {
		return false, err
	}
	pairs, err := b.dump()
	if err != nil {
		return false, err
	}
	entry, err := b.readEntry(pairs, bootname)
	if err != nil {
		return false, err
	}
	return b.good(entry), nil
}

// BadCause distinguishes a slot explicitly disabled (priority zeroed by
// SetState(false)) from one that simply ran out of its own boot attempts.
func (b *barebox) BadCause(slotName string) (BadCause, error) {
	bootname, err := slotBootName(b.registry, slotName)
	if err != nil {
		return CauseDisabled, err
	}
	pairs, err := b.dump()
	if err != nil {
		return CauseDisabled, err
	}
	entry, err := b.readEntry(pairs, bootname)
	if err != nil {
		return CauseDisabled, err
	}
	if entry.priority == 0 {
		return CauseDisabled, nil
	}
	return CauseExhausted, nil
}

func (b *barebox) GetPrimary() (string, error) {
	pairs, err := b.dump()
	if err != nil {
		return "", err
	}

	var (
		bestSlot string
		bestPrio uint32
		found    bool
	)
	for _, s := range b.registry.ByClass("rootfs") {
		if !s.HasBootName() {
			continue
		}
		entry, err := b.readEntry(pairs, s.BootName)
		if err != nil {
			continue
		}
		if !b.good(entry) {
			continue
		}
		if !found || entry.priority > bestPrio {
			bestSlot = s.Name
			bestPrio = entry.priority
			found = true
		}
	}
	if !found {
		return "", types.NewNoPrimary("no rootfs slot has both priority and remaining attempts > 0")
	}
	return bestSlot, nil
}

func (b *barebox) SetState(slotName string, good bool) error {
	bootname, err := slotBootName(b.registry, slotName)
	if err != nil {
		return err
	}
	if good {
		return b.write([]keyVal{
			{bareboxKey(bootname, "remaining_attempts"), strconv.FormatUint(uint64(b.cfg.Attempts()), 10)},
		})
	}
	return b.write([]keyVal{
		{bareboxKey(bootname, "priority"), "0"},
		{bareboxKey(bootname, "remaining_attempts"), "0"},
	})
}

func (b *barebox) SetPrimary(slotName string) error {
	bootname, err := slotBootName(b.registry, slotName)
	if err != nil {
		return err
	}

	pairs, err := b.dump()
	if err != nil {
		return err
	}

	sets := []keyVal{
		{bareboxKey(bootname, "priority"), strconv.Itoa(types.DefaultPrimaryPriority)},
		{bareboxKey(bootname, "remaining_attempts"), strconv.FormatUint(uint64(b.cfg.Attempts()), 10)},
	}

	var errs *multierror.Error
	for _, s := range b.registry.ByClass("rootfs") {
		if s.Name == slotName || !s.HasBootName() {
			continue
		}
		entry, err := b.readEntry(pairs, s.BootName)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if entry.priority > 0 {
			sets = append(sets, keyVal{bareboxKey(s.BootName, "priority"), strconv.Itoa(types.DefaultNonPrimaryPriority)})
		}
	}
	if errs.ErrorOrNil() != nil {
		b.logger.Warnf("ignoring unreadable peer entries while computing demotions: %s", errs)
	}

	return b.write(sets)
}
