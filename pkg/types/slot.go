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

package types

// Slot is the configuration-time description of one redundant rootfs (or
// recovery) copy. It is supplied by an external collaborator (config file
// parsing, slot-descriptor construction); the core only ever reads it.
type Slot struct {
	// Name is the unique identifier within a slot class, e.g. "rootfs.0".
	Name string `yaml:"name" mapstructure:"name"`
	// BootName is the name the bootloader uses for this slot, e.g.
	// "system0", "A", "recover". Empty means the slot isn't bootable.
	BootName string `yaml:"bootname" mapstructure:"bootname"`
	// Class is a role tag: "rootfs", "recovery", "rescue", ...
	Class string `yaml:"class" mapstructure:"class"`
	// Device is opaque to the core; used only for identity/logging.
	Device string `yaml:"device" mapstructure:"device"`
	// ReadOnly is carried from configuration. The backends do not consult
	// it: SetState and SetPrimary do not refuse a read-only slot.
	ReadOnly bool `yaml:"readonly" mapstructure:"readonly"`
}

// HasBootName reports whether this slot can be mapped to a bootloader entry.
func (s Slot) HasBootName() bool {
	return s.BootName != ""
}
