// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hostextra

import (
	"periph.io/x/periph"
	"periph.io/x/periph/host"
	_ "periph.io/x/twi/twisim"
)

// Init calls host.Init(), which calls periph.Init() and returns it as-is.
//
// The difference with host.Init() and periph.Init() is that hostextra.Init()
// also loads the TWI drivers of this module, including the simulated bus
// registered as "TWI-SIM".
//
// Since host.Init() is used, all drivers in periph.io/x/periph/host are also
// automatically loaded.
func Init() (*periph.State, error) {
	return host.Init()
}
