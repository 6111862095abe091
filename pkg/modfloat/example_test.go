// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat_test

import (
	"fmt"

	"github.com/holomush/modfloat/pkg/modfloat"
)

func Example() {
	speed := modfloat.New[string](10)

	_ = speed.For("boots", "haste").Add(10.5, 5)
	_ = speed.Minimum("aura", "", 5, 5)
	fmt.Println(speed.Value())

	_ = speed.RetractAll("boots")
	fmt.Println(speed.Value())

	// Output:
	// 20.5
	// 10
}

func ExampleFloat_Trace() {
	hp := modfloat.New[string](0)
	_ = hp.Set("class", "x", 100, 0)
	_ = hp.Add("ring", "y", 1, -1)

	fmt.Println(hp.Trace())
	fmt.Println(hp.Value())

	// Output:
	// [-1]	0 + 1 = 1	 (ring | "y")
	// [0]	1 -> 100 = 100	 (class | "x")
	// 100
}
