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
	"bytes"
	"io"
	"io/ioutil"

	log "github.com/sirupsen/logrus"
)

// Logger is the logging surface the bootloader core and its backends take
// at construction time, so callers can plug in whichever sink they use.
type Logger interface {
	Info(...interface{})
	Warn(...interface{})
	Debug(...interface{})
	Error(...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	SetLevel(level log.Level)
	GetLevel() log.Level
	SetOutput(writer io.Writer)
}

// NewLogger returns a logrus-backed Logger writing to its default output.
func NewLogger() Logger {
	return log.New()
}

// NewNullLogger returns a Logger that discards everything, for tests that
// don't care about log output.
func NewNullLogger() Logger {
	logger := log.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

// NewBufferLogger returns a Logger that writes into the given buffer, for
// tests asserting on emitted log lines.
func NewBufferLogger(b *bytes.Buffer) Logger {
	logger := log.New()
	logger.SetOutput(b)
	return logger
}
