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

// Package mocks provides test doubles for the types.Runner seam.
package mocks

import (
	"fmt"
	"strings"

	"github.com/suse-edge/bootchooser/pkg/types"
)

// FakeRunner records every invocation and answers from a SideEffect
// callback when set, falling back to ReturnStdout/ReturnStderr/ReturnError.
type FakeRunner struct {
	cmds [][]string

	ReturnStdout []byte
	ReturnStderr []byte
	ReturnError  error

	// SideEffect, when set, takes precedence and is consulted for every
	// call, keyed by the full command+args.
	SideEffect func(command string, args ...string) (stdout []byte, stderr []byte, err error)

	CmdNotFound string
	Logger      types.Logger
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{cmds: [][]string{}}
}

func (r *FakeRunner) CommandExists(command string) bool {
	return command != r.CmdNotFound
}

func (r *FakeRunner) Run(command string, args ...string) ([]byte, []byte, error) {
	r.cmds = append(r.cmds, append([]string{command}, args...))
	if r.Logger != nil {
		r.Logger.Debugf("fake-run: %s %s", command, strings.Join(args, " "))
	}
	if r.SideEffect != nil {
		return r.SideEffect(command, args...)
	}
	return r.ReturnStdout, r.ReturnStderr, r.ReturnError
}

func (r *FakeRunner) ClearCmds() {
	r.cmds = [][]string{}
}

// GetCmds returns the commands recorded so far, each as [command, args...].
func (r *FakeRunner) GetCmds() [][]string {
	return r.cmds
}

// CmdsMatch checks the recorded commands against cmdList in order, using
// HasPrefix per entry so dynamic trailing arguments don't need to be
// spelled out exactly.
func (r *FakeRunner) CmdsMatch(cmdList [][]string) error {
	if len(cmdList) != len(r.cmds) {
		return fmt.Errorf("number of calls mismatch, expected %d calls but got %d", len(cmdList), len(r.cmds))
	}
	for i, cmd := range cmdList {
		expect := strings.Join(cmd, " ")
		got := strings.Join(r.cmds[i], " ")
		if !strings.HasPrefix(got, expect) {
			return fmt.Errorf("expected command %q got %q", expect, got)
		}
	}
	return nil
}

// IncludesCmds checks that every entry in cmdList was run, in any order.
func (r *FakeRunner) IncludesCmds(cmdList [][]string) error {
	for _, cmd := range cmdList {
		expect := strings.Join(cmd, " ")
		found := false
		for _, rcmd := range r.cmds {
			if strings.HasPrefix(strings.Join(rcmd, " "), expect) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("command %q not found", expect)
		}
	}
	return nil
}

// LastCmd returns the most recently recorded command, or nil if none.
func (r *FakeRunner) LastCmd() []string {
	if len(r.cmds) == 0 {
		return nil
	}
	return r.cmds[len(r.cmds)-1]
}
