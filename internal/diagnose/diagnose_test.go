// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// FatalError is not exercised here: it calls os.Exit and would terminate
// the test binary.
package diagnose

import (
	"errors"
	"testing"
)

func TestUserError_ErrorIncludesCauseWhenPresent(t *testing.T) {
	cause := errors.New("permission denied")
	ue := NewPermissionError("Cannot read workspace", "Cargo.toml is not readable", "check file permissions", cause)

	want := "Cannot read workspace: Cargo.toml is not readable: permission denied"
	if got := ue.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(ue, cause) {
		t.Error("errors.Is should see through Unwrap to the cause")
	}
}

func TestUserError_ErrorOmitsCauseWhenNil(t *testing.T) {
	ue := NewUserError("Bad flag", "--mode must be strict or ambiguous", "", nil)
	want := "Bad flag: --mode must be strict or ambiguous"
	if got := ue.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if ue.Unwrap() != nil {
		t.Error("Unwrap() should be nil when Cause is nil")
	}
}

func TestConstructors_SetExpectedCategory(t *testing.T) {
	cases := []struct {
		name string
		err  *UserError
		want Category
	}{
		{"internal", NewInternalError("t", "d", "s", nil), CategoryInternal},
		{"permission", NewPermissionError("t", "d", "s", nil), CategoryPermission},
		{"database", NewDatabaseError("t", "d", "s", nil), CategoryDatabase},
		{"network", NewNetworkError("t", "d", "s", nil), CategoryNetwork},
		{"user", NewUserError("t", "d", "s", nil), CategoryUser},
	}
	for _, c := range cases {
		if c.err.Category != c.want {
			t.Errorf("%s: Category = %q, want %q", c.name, c.err.Category, c.want)
		}
		if c.err.Title != "t" || c.err.Detail != "d" || c.err.Suggestion != "s" {
			t.Errorf("%s: fields not threaded through correctly: %+v", c.name, c.err)
		}
	}
}
