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

package bootloader_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/suse-edge/bootchooser/pkg/bootloader"
	"github.com/suse-edge/bootchooser/pkg/mocks"
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

var _ = Describe("efi backend", Label("bootloader", "efi"), func() {
	var (
		reg     *slots.Registry
		runner  *mocks.FakeRunner
		logger  types.Logger
		backend bootloader.Backend
		listing string
	)

	BeforeEach(func() {
		reg = slots.New([]types.Slot{
			{Name: "rootfs.0", BootName: "system0", Class: "rootfs"},
			{Name: "rootfs.1", BootName: "system1", Class: "rootfs"},
		})
		runner = mocks.NewFakeRunner()
		logger = types.NewNullLogger()

		listing = "BootCurrent: 0002\n" +
			"Timeout: 1 seconds\n" +
			"BootOrder: 0002,0003,0001\n" +
			"Boot0001* UEFI: Built-in EFI Shell\n" +
			"Boot0002* system0\n" +
			"Boot0003  system1\n"

		runner.SideEffect = func(command string, args ...string) ([]byte, []byte, error) {
			if len(args) == 0 {
				return []byte(listing), nil, nil
			}
			return nil, nil, nil
		}

		var err error
		backend, err = bootloader.New(types.Config{Bootloader: bootloader.EFI}, reg, runner, logger)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports a slot whose entry carries the active marker as good", func() {
		good, err := backend.GetState("rootfs.0")
		Expect(err).NotTo(HaveOccurred())
		Expect(good).To(BeTrue())
	})

	It("reports a slot whose entry has no active marker as not good", func() {
		good, err := backend.GetState("rootfs.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(good).To(BeFalse())
	})

	It("reports a slot with no matching boot entry as not good, without error", func() {
		reg2 := slots.New([]types.Slot{{Name: "rootfs.2", BootName: "system2", Class: "rootfs"}})
		b2, err := bootloader.New(types.Config{Bootloader: bootloader.EFI}, reg2, runner, logger)
		Expect(err).NotTo(HaveOccurred())
		good, err := b2.GetState("rootfs.2")
		Expect(err).NotTo(HaveOccurred())
		Expect(good).To(BeFalse())
	})

	It("picks the first active BootOrder entry mapping to a configured slot as primary", func() {
		name, err := backend.GetPrimary()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("rootfs.0"))
	})

	It("skips BootOrder entries that are inactive or unmapped", func() {
		listing = "BootOrder: 0001,0003,0002\n" +
			"Boot0001* UEFI: Built-in EFI Shell\n" +
			"Boot0002* system0\n" +
			"Boot0003  system1\n"
		name, err := backend.GetPrimary()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("rootfs.0"))
	})

	It("fails with NoPrimary when no BootOrder entry qualifies", func() {
		listing = "BootOrder: 0003\nBoot0003  system1\n"
		_, err := backend.GetPrimary()
		Expect(err).To(HaveOccurred())
		Expect(types.IsKind(err, types.NoPrimary)).To(BeTrue())
	})

	It("BadCause always reports Disabled, since efibootmgr has no attempt counter", func() {
		cause, err := backend.BadCause("rootfs.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(cause).To(Equal(bootloader.CauseDisabled))
	})

	It("SetState(good) activates the matching boot entry", func() {
		err := backend.SetState("rootfs.1", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.LastCmd()).To(Equal([]string{"efibootmgr", "-b", "0003", "-a"}))
	})

	It("SetState(bad) deactivates the matching boot entry", func() {
		err := backend.SetState("rootfs.0", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(runner.LastCmd()).To(Equal([]string{"efibootmgr", "-b", "0002", "-A"}))
	})

	It("fails with BackendError when the slot has no corresponding boot entry", func() {
		reg2 := slots.New([]types.Slot{{Name: "rootfs.2", BootName: "system2", Class: "rootfs"}})
		b2, err := bootloader.New(types.Config{Bootloader: bootloader.EFI}, reg2, runner, logger)
		Expect(err).NotTo(HaveOccurred())
		err = b2.SetState("rootfs.2", true)
		Expect(err).To(HaveOccurred())
		Expect(types.IsKind(err, types.BackendError)).To(BeTrue())
	})

	It("SetPrimary rewrites BootOrder with the slot's entry id first", func() {
		err := backend.SetPrimary("rootfs.1")
		Expect(err).NotTo(HaveOccurred())
		cmd := runner.LastCmd()
		Expect(cmd[0]).To(Equal("efibootmgr"))
		Expect(cmd[1]).To(Equal("-o"))
		Expect(strings.Split(cmd[2], ",")[0]).To(Equal("0003"))
	})
})
