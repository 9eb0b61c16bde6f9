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
	"os"

	"github.com/twpayne/go-vfs/v4"
)

// FS is the narrow filesystem seam the GRUB backend needs: checking that
// the configured grubenv file exists before shelling out to grub-editenv,
// so a missing file surfaces as a clear Unsupported rather than an opaque
// BackendError from the tool itself. Kept deliberately small rather than
// the teacher's full read/write FS interface, since the core never reads
// or writes bootloader state directly (see spec.md §1: the external tool
// is the only transactional channel).
type FS interface {
	Stat(name string) (os.FileInfo, error)
}

// NewRealFS returns the real, OS-backed FS.
func NewRealFS() FS {
	return vfs.OSFS
}

// Exists reports whether name exists on fs.
func Exists(fs FS, name string) bool {
	_, err := fs.Stat(name)
	return err == nil
}
