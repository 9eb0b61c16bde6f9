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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/suse-edge/bootchooser/pkg/bootloader"
	"github.com/suse-edge/bootchooser/pkg/mocks"
	"github.com/suse-edge/bootchooser/pkg/slots"
	"github.com/suse-edge/bootchooser/pkg/types"
)

var _ = Describe("DescribeState", Label("bootloader", "state"), func() {
	var (
		reg    *slots.Registry
		runner *mocks.FakeRunner
		logger types.Logger
		dump   string
	)

	BeforeEach(func() {
		reg = slots.New([]types.Slot{
			{Name: "rootfs.0", BootName: "system0", Class: "rootfs"},
			{Name: "rootfs.1", BootName: "system1", Class: "rootfs"},
			{Name: "recovery", Class: "recovery"},
		})
		runner = mocks.NewFakeRunner()
		logger = types.NewNullLogger()
		dump = "bootstate.system0.priority=20\nbootstate.system0.remaining_attempts=3\n" +
			"bootstate.system1.priority=0\nbootstate.system1.remaining_attempts=0\n"
		runner.SideEffect = func(command string, args ...string) ([]byte, []byte, error) {
			if len(args) > 0 && args[0] == "--get-dump" {
				return []byte(dump), nil, nil
			}
			return nil, nil, nil
		}
	})

	It("classifies the best slot as Primary, a disabled one as BadDisabled, and a bootname-less one as Absent", func() {
		backend, err := bootloader.New(types.Config{Bootloader: bootloader.Barebox}, reg, runner, logger)
		Expect(err).NotTo(HaveOccurred())

		states, err := bootloader.DescribeState(backend, reg)
		Expect(err).NotTo(HaveOccurred())
		Expect(states["rootfs.0"]).To(Equal(bootloader.Primary))
		Expect(states["rootfs.1"]).To(Equal(bootloader.BadDisabled))
		Expect(states["recovery"]).To(Equal(bootloader.Absent))
	})

	It("tolerates NoPrimary, classifying every bootable slot as at most GoodNotPrimary", func() {
		dump = "bootstate.system0.priority=0\nbootstate.system0.remaining_attempts=0\n" +
			"bootstate.system1.priority=0\nbootstate.system1.remaining_attempts=0\n"
		backend, err := bootloader.New(types.Config{Bootloader: bootloader.Barebox}, reg, runner, logger)
		Expect(err).NotTo(HaveOccurred())

		states, err := bootloader.DescribeState(backend, reg)
		Expect(err).NotTo(HaveOccurred())
		Expect(states["rootfs.0"]).To(Equal(bootloader.BadDisabled))
		Expect(states["rootfs.1"]).To(Equal(bootloader.BadDisabled))
	})

	It("classifies a slot with priority>0 but no remaining attempts as BadExhausted, distinct from a zeroed-priority peer", func() {
		dump = "bootstate.system0.priority=20\nbootstate.system0.remaining_attempts=0\n" +
			"bootstate.system1.priority=0\nbootstate.system1.remaining_attempts=0\n"
		backend, err := bootloader.New(types.Config{Bootloader: bootloader.Barebox}, reg, runner, logger)
		Expect(err).NotTo(HaveOccurred())

		states, err := bootloader.DescribeState(backend, reg)
		Expect(err).NotTo(HaveOccurred())
		Expect(states["rootfs.0"]).To(Equal(bootloader.BadExhausted))
		Expect(states["rootfs.1"]).To(Equal(bootloader.BadDisabled))
	})
})
