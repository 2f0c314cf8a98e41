// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pvt

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// NewFlasher looks up a registered Flasher model by name and initialises
// it from prms, the same name-to-constructor factory idiom as
// rock.New/rock.NewCapPressure. comps and nb are only consulted by models
// that need a per-component table and a skip-stability accelerator sized
// to the domain's cell count (the compositional flash); blackoil ignores
// both.
func NewFlasher(name string, prms fun.Params, comps []ComponentProps, nb int) (Flasher, error) {
	switch name {
	case "blackoil":
		o := new(BlackOil)
		o.Init(prms)
		return o, nil
	case "compositional":
		o := new(Compositional)
		o.Init(prms)
		o.Comps = comps
		o.Skip = NewSkipStability(nb, len(comps))
		return o, nil
	default:
		return nil, chk.Err("pvt: flash model %q is not available\n", name)
	}
}
