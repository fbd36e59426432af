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

// Package term provides the CLI's colored terminal output, disabling
// itself automatically when stdout is not a TTY or NO_COLOR is set.
package term

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed, color.Bold)
	Dim    = color.New(color.Faint)
	Bold   = color.New(color.Bold)
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) || os.Getenv("NO_COLOR") != "" {
		DisableColor()
	}
}

// DisableColor forces every handle in this package to print plain text,
// regardless of the terminal. Used when --no-color is passed or stdout
// is redirected.
func DisableColor() {
	color.NoColor = true
}

// Header prints a bold section title followed by a blank line.
func Header(title string) {
	_, _ = Bold.Println(title)
	fmt.Println()
}

// SubHeader prints a dim section title, no trailing blank line.
func SubHeader(title string) {
	_, _ = Dim.Println(title)
}

// Label renders a bold field label, e.g. for "Project ID: abc123".
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText renders text in the faint style, for secondary details.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText renders an integer count, highlighted for readability.
func CountText(n int) string {
	return Bold.Sprint(n)
}
