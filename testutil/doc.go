// Package testutil provides deterministic point data for tests and
// benchmarks.
//
//	rng := testutil.NewRNG(seed)
//	raw := rng.Points(l, 1000)       // valid values for every member of l
//	xyz := rng.Cloud(1000, 100)      // positions in a 100 m cube
package testutil
