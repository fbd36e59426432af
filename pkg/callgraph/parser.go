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

// Package callgraph extracts CallsStatic edges from a package's Rust
// source text, using the already-built FunctionIndex to resolve call
// targets across files within the package. A resolved call's Confidence
// is Static for a unique candidate and Inferred when more than one
// candidate survives under ModeAmbiguous.
package callgraph

import (
	"context"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// parserPool hands out tree-sitter parsers configured for Rust; parsers
// are not safe for concurrent use, so callers of the same package take
// one from the pool per file and return it when done.
type parserPool struct {
	pool sync.Pool
	once sync.Once
}

func newParserPool() *parserPool {
	return &parserPool{}
}

func (p *parserPool) init() {
	p.once.Do(func() {
		p.pool.New = func() any {
			parser := sitter.NewParser()
			parser.SetLanguage(rust.GetLanguage())
			return parser
		}
	})
}

func (p *parserPool) parse(src []byte) (*sitter.Tree, error) {
	p.init()
	parser := p.pool.Get().(*sitter.Parser)
	defer p.pool.Put(parser)
	return parser.ParseCtx(context.Background(), nil, src)
}
