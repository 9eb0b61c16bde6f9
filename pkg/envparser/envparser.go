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

// Package envparser parses and re-emits the KEY=VALUE multi-line blobs
// every bootloader backend's read tool (barebox-state --get-dump,
// fw_printenv, grub-editenv list) produces.
package envparser

import (
	"strings"

	"github.com/suse-edge/bootchooser/pkg/types"
)

// pair is one KEY=VALUE entry. Its index in Pairs.vals is its re-emission
// position, so input order is preserved even after updates.
type pair struct {
	key   string
	value string
}

// Pairs is an ordered, duplicate-tolerant KEY=VALUE association list.
// Duplicate keys: the last value wins, but the first occurrence's position
// is what gets re-emitted at.
type Pairs struct {
	index map[string]int
	vals  []pair
}

func newPairs() *Pairs {
	return &Pairs{index: map[string]int{}}
}

// Parse parses a multi-line KEY=VALUE blob. Blank lines and leading/
// trailing whitespace are ignored. A line with no '=' is a ParseError.
func Parse(blob string) (*Pairs, error) {
	p := newPairs()
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			return nil, types.NewParseError("expected KEY=VALUE", line)
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		p.Set(key, value)
	}
	return p, nil
}

// Get returns the value for key and whether it was present.
func (p *Pairs) Get(key string) (string, bool) {
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.vals[i].value, true
}

// Set updates key in place if already present (preserving its original
// position), or appends it as a new trailing entry.
func (p *Pairs) Set(key, value string) {
	if i, ok := p.index[key]; ok {
		p.vals[i].value = value
		return
	}
	p.index[key] = len(p.vals)
	p.vals = append(p.vals, pair{key: key, value: value})
}

// Delete removes key, if present.
func (p *Pairs) Delete(key string) {
	i, ok := p.index[key]
	if !ok {
		return
	}
	delete(p.index, key)
	p.vals = append(p.vals[:i], p.vals[i+1:]...)
	for k, idx := range p.index {
		if idx > i {
			p.index[k] = idx - 1
		}
	}
}

// Keys returns the keys in their current re-emission order.
func (p *Pairs) Keys() []string {
	keys := make([]string, len(p.vals))
	for i, kv := range p.vals {
		keys[i] = kv.key
	}
	return keys
}

// String re-emits the pairs, one KEY=VALUE per line, in stored order.
func (p *Pairs) String() string {
	var b strings.Builder
	for _, kv := range p.vals {
		b.WriteString(kv.key)
		b.WriteByte('=')
		b.WriteString(kv.value)
		b.WriteByte('\n')
	}
	return b.String()
}
