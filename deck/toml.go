// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package deck

import "github.com/BurntSushi/toml"

// ReadTOML loads a deck from a TOML file, the alternate human-editable
// deck format SPEC_FULL.md's domain stack wires in alongside the JSON
// format inp/mat.go uses, reusing the rest of the pack's
// github.com/BurntSushi/toml dependency.
func ReadTOML(path string) (*Deck, error) {
	d := new(Deck)
	_, err := toml.DecodeFile(path, d)
	if err != nil {
		return nil, err
	}
	return d, nil
}
