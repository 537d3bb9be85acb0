// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"strings"
	"testing"

	"github.com/bureau-foundation/scriptkit/lib/testutil"
)

const settingsYAML = `site: example
db:
  host: localhost
  port: 5432
  replicas:
    - host: replica-a
    - host: replica-b
`

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	result := testutil.RunScript(t, New(), Name, settingsYAML, "", args...)
	return result.Status, result.Stdout, result.Stderr
}

func TestSettings_Keys(t *testing.T) {
	status, stdout, stderr := run(t, "-k", "site", "--key=db/port", "-k", "db/replicas/1/host")
	if status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, stderr)
	}
	want := "site = example\ndb/port = 5432\ndb/replicas/1/host = replica-b\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestSettings_NestedValuePrintsYAML(t *testing.T) {
	status, stdout, stderr := run(t, "--key", "db/replicas/0")
	if status != 0 {
		t.Fatalf("status = %d, stderr = %q", status, stderr)
	}
	if stdout != "db/replicas/0:\n  host: replica-a\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSettings_ListsTopLevelKeysOnOneLine(t *testing.T) {
	status, stdout, _ := run(t)
	if status != 0 {
		t.Fatalf("status = %d", status)
	}
	if stdout != "keys: db site\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSettings_Missing(t *testing.T) {
	status, stdout, _ := run(t, "--key", "db/user")
	if status != 0 {
		t.Errorf("lenient status = %d, want 0", status)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing", stdout)
	}

	status, _, stderr := run(t, "--key", "db/user", "--strict")
	if status != MissingExitCode {
		t.Errorf("strict status = %d, want %d", status, MissingExitCode)
	}
	if !strings.Contains(stderr, `no setting at "db/user"`) {
		t.Errorf("stderr = %q", stderr)
	}
}
