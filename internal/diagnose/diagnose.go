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

// Package diagnose renders user-facing errors: a short title, what went
// wrong, a concrete next step, and (outside JSON mode) the underlying
// cause for bug reports.
package diagnose

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kraklabs/codegraph/internal/term"
)

// Category distinguishes the broad class of failure, used only to decide
// presentation (color, whether a cause is worth showing); it carries no
// programmatic meaning outside this package.
type Category string

const (
	CategoryInternal   Category = "internal"
	CategoryPermission Category = "permission"
	CategoryDatabase   Category = "database"
	CategoryNetwork    Category = "network"
	CategoryUser       Category = "user"
)

// UserError is an error with enough context to show someone who is not
// debugging Go: what failed, why, and what to do about it.
type UserError struct {
	Category   Category
	Title      string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error { return e.Cause }

// NewInternalError reports an unexpected failure in the engine itself.
func NewInternalError(title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: CategoryInternal, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewPermissionError reports a filesystem-permission failure.
func NewPermissionError(title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: CategoryPermission, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewDatabaseError reports a failure reading or writing the workspace
// output (or, during development, the embedded graph store).
func NewDatabaseError(title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: CategoryDatabase, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewNetworkError reports a failure reaching an external tool or server.
func NewNetworkError(title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: CategoryNetwork, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewUserError reports a failure caused by the invocation itself (bad
// flags, a workspace that doesn't exist) rather than the engine.
func NewUserError(title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: CategoryUser, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// FatalError prints err and exits the process with a non-zero status. A
// plain error (not a *UserError) is wrapped as an internal error first.
// In JSON mode the error is emitted as a single JSON object on stdout
// instead of colored text on stderr, so scripted callers can parse it.
func FatalError(err error, jsonMode bool) {
	ue, ok := err.(*UserError)
	if !ok {
		ue = NewInternalError("Unexpected error", err.Error(), "Please report this issue.", err)
	}

	if jsonMode {
		payload := map[string]string{
			"error":      ue.Title,
			"detail":     ue.Detail,
			"suggestion": ue.Suggestion,
		}
		if ue.Cause != nil {
			payload["cause"] = ue.Cause.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(payload)
		os.Exit(1)
	}

	_, _ = term.Red.Fprintf(os.Stderr, "✗ %s\n", ue.Title)
	if ue.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", ue.Detail)
	}
	if ue.Suggestion != "" {
		_, _ = term.Dim.Fprintf(os.Stderr, "  → %s\n", ue.Suggestion)
	}
	if ue.Cause != nil {
		_, _ = term.Dim.Fprintf(os.Stderr, "  cause: %v\n", ue.Cause)
	}
	os.Exit(1)
}
