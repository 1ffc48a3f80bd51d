// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hostextra loads the TWI drivers on top of the host drivers.
//
// The host is the machine where this code is running. After Init, the buses
// are available through periph.io/x/periph/conn/i2c/i2creg.
package hostextra
