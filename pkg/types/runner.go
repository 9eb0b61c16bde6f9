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

import (
	"os/exec"
	"strings"
)

// Runner is the subprocess seam (C2). It spawns tools on PATH, never through
// a shell, and hands back stdout/stderr separately so callers can build a
// BackendError carrying only stderr. Environment variables are inherited
// unchanged so test harnesses can redirect tools via PATH and inject state
// fixtures via env vars.
type Runner interface {
	// Run executes command with args and returns combined exit status
	// information split as (stdout, stderr, error). error is non-nil only
	// for a failure to start the process or a non-zero exit.
	Run(command string, args ...string) (stdout []byte, stderr []byte, err error)

	// CommandExists reports whether command is resolvable on PATH.
	CommandExists(command string) bool
}

// RealRunner shells out for real via os/exec.
type RealRunner struct {
	Logger Logger
}

func (r RealRunner) Run(command string, args ...string) ([]byte, []byte, error) {
	if r.Logger != nil {
		r.Logger.Debugf("running: %s %s", command, strings.Join(args, " "))
	}

	cmd := exec.Command(command, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return []byte(stdout.String()), []byte(stderr.String()), err
}

func (r RealRunner) CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
