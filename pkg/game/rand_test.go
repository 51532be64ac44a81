package game

import (
	"testing"

	"pgregory.net/rapid"
)

func TestRandReplay(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		a, b := NewRand(seed), NewRand(seed)
		for i := 0; i < 50; i++ {
			if a.Float64() != b.Float64() {
				rt.Fatalf("Seed %d diverged at draw %d", seed, i)
			}
		}
	})
}

func TestRandRanges(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := NewRand(rapid.Int64().Draw(rt, "seed"))
		lo := rapid.Float64Range(-1000, 1000).Draw(rt, "lo")
		hi := lo + rapid.Float64Range(0.001, 1000).Draw(rt, "span")

		if v := g.Range(lo, hi); v < lo || v > hi {
			rt.Fatalf("Range(%v, %v) = %v", lo, hi, v)
		}
		if s := g.Sign(); s != 1 && s != -1 {
			rt.Fatalf("Sign() = %v", s)
		}
		if g.Chance(0) {
			rt.Fatal("Chance(0) returned true")
		}
		if !g.Chance(1) {
			rt.Fatal("Chance(1) returned false")
		}
	})
}
