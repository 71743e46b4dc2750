// Copyright (C) 2026 ISA Project Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"math/big"

	"github.com/mouhamed1296/isa-project/pkg/ring"
)

// parseDecimal parses an unsigned base-10 string into a ring.Element,
// rejecting values that don't fit in 256 bits.
func parseDecimal(s string) (ring.Element, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return ring.Zero, fmt.Errorf("not a non-negative decimal integer")
	}
	if n.BitLen() > 256 {
		return ring.Zero, fmt.Errorf("value exceeds 256 bits")
	}
	be := n.Bytes()
	var e ring.Element
	for i := 0; i < len(be); i++ {
		e[i] = be[len(be)-1-i]
	}
	return e, nil
}
