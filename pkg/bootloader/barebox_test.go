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

var _ = Describe("barebox backend", Label("bootloader", "barebox"), func() {
	var (
		reg     *slots.Registry
		runner  *mocks.FakeRunner
		logger  types.Logger
		backend bootloader.Backend
		dump    string
	)

	BeforeEach(func() {
		reg = slots.New([]types.Slot{
			{Name: "rootfs.0", BootName: "system0", Class: "rootfs"},
			{Name: "rootfs.1", BootName: "system1", Class: "rootfs"},
		})
		runner = mocks.NewFakeRunner()
		logger = types.NewNullLogger()

		dump = "bootstate.system0.priority=20\n" +
			"bootstate.system0.remaining_attempts=3\n" +
			"bootstate.system1.priority=10\n" +
			"bootstate.system1.remaining_attempts=3\n"

		runner.SideEffect = func(command string, args ...string) ([]byte, []byte, error) {
			if len(args) > 0 && args[0] == "--get-dump" {
				return []byte(dump), nil, nil
			}
			return nil, nil, nil
		}

		var err error
		backend, err = bootloader.New(types.Config{Bootloader: bootloader.Barebox}, reg, runner, logger)
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports a slot with priority>0 and attempts>0 as good", func() {
		good, err := backend.GetState("rootfs.0")
		Expect(err).NotTo(HaveOccurred())
		Expect(good).To(BeTrue())
	})

	It("reports a slot with zero remaining attempts as not good", func() {
		dump = "bootstate.system0.priority=20\nbootstate.system0.remaining_attempts=0\n"
		good, err := backend.GetState("rootfs.0")
		Expect(err).NotTo(HaveOccurred())
		Expect(good).To(BeFalse())
	})

	It("fails GetState with NotBootable for a slot with no bootname", func() {
		reg2 := slots.New([]types.Slot{{Name: "recovery", Class: "recovery"}})
		b2, err := bootloader.New(types.Config{Bootloader: bootloader.Barebox}, reg2, runner, logger)
		Expect(err).NotTo(HaveOccurred())
		_, err = b2.GetState("recovery")
		Expect(types.IsKind(err, types.NotBootable)).To(BeTrue())
	})

	It("fails with ParseError when an entry's fields are missing", func() {
		dump = "bootstate.system0.priority=20\n"
		_, err := backend.GetState("rootfs.0")
		Expect(err).To(HaveOccurred())
		Expect(types.IsKind(err, types.ParseError)).To(BeTrue())
	})

	It("picks the highest-priority good rootfs slot as primary", func() {
		name, err := backend.GetPrimary()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("rootfs.0"))
	})

	It("fails with NoPrimary when no rootfs slot is good", func() {
		dump = "bootstate.system0.priority=0\nbootstate.system0.remaining_attempts=0\n" +
			"bootstate.system1.priority=0\nbootstate.system1.remaining_attempts=0\n"
		_, err := backend.GetPrimary()
		Expect(err).To(HaveOccurred())
		Expect(types.IsKind(err, types.NoPrimary)).To(BeTrue())
	})

	It("BadCause reports Exhausted for a zero-attempts entry whose priority is still set", func() {
		dump = "bootstate.system0.priority=20\nbootstate.system0.remaining_attempts=0\n"
		cause, err := backend.BadCause("rootfs.0")
		Expect(err).NotTo(HaveOccurred())
		Expect(cause).To(Equal(bootloader.CauseExhausted))
	})

	It("BadCause reports Disabled for a zeroed-priority entry", func() {
		dump = "bootstate.system0.priority=0\nbootstate.system0.remaining_attempts=0\n"
		cause, err := backend.BadCause("rootfs.0")
		Expect(err).NotTo(HaveOccurred())
		Expect(cause).To(Equal(bootloader.CauseDisabled))
	})

	It("SetState(good) only restores remaining_attempts", func() {
		err := backend.SetState("rootfs.0", true)
		Expect(err).NotTo(HaveOccurred())
		cmd := runner.LastCmd()
		Expect(strings.Join(cmd, " ")).To(ContainSubstring("bootstate.system0.remaining_attempts=3"))
		Expect(strings.Join(cmd, " ")).NotTo(ContainSubstring("bootstate.system0.priority"))
	})

	It("SetState(bad) zeroes both priority and remaining_attempts", func() {
		err := backend.SetState("rootfs.0", false)
		Expect(err).NotTo(HaveOccurred())
		cmd := strings.Join(runner.LastCmd(), " ")
		Expect(cmd).To(ContainSubstring("bootstate.system0.priority=0"))
		Expect(cmd).To(ContainSubstring("bootstate.system0.remaining_attempts=0"))
	})

	It("SetPrimary promotes the slot and demotes other enabled rootfs peers", func() {
		err := backend.SetPrimary("rootfs.1")
		Expect(err).NotTo(HaveOccurred())
		cmd := strings.Join(runner.LastCmd(), " ")
		Expect(cmd).To(ContainSubstring("bootstate.system1.priority=20"))
		Expect(cmd).To(ContainSubstring("bootstate.system1.remaining_attempts=3"))
		Expect(cmd).To(ContainSubstring("bootstate.system0.priority=10"))
	})

	It("SetPrimary leaves an already-disabled peer out of the write entirely", func() {
		dump = "bootstate.system0.priority=20\nbootstate.system0.remaining_attempts=3\n" +
			"bootstate.system1.priority=0\nbootstate.system1.remaining_attempts=0\n"
		err := backend.SetPrimary("rootfs.0")
		Expect(err).NotTo(HaveOccurred())
		cmd := strings.Join(runner.LastCmd(), " ")
		Expect(cmd).NotTo(ContainSubstring("bootstate.system1.priority"))
	})
})
