package engine

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := rng1.Intn(6)
		b := rng2.Intn(6)
		if a != b {
			t.Fatalf("draw %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Intn_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := rng.Intn(6)
		if r < 0 || r >= 6 {
			t.Fatalf("Intn out of range [0,6): got %d", r)
		}
	}
}

func TestRNG_Intn_One(t *testing.T) {
	rng := NewRNG(1)

	for i := 0; i < 10; i++ {
		if r := rng.Intn(1); r != 0 {
			t.Fatalf("Intn(1) should always be 0, got %d", r)
		}
	}
}

func TestRNG_Float64_Range(t *testing.T) {
	rng := NewRNG(3)
	for i := 0; i < 1000; i++ {
		if f := rng.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %f", f)
		}
	}
}

func TestRNG_Chance_Extremes(t *testing.T) {
	rng := NewRNG(5)
	for i := 0; i < 100; i++ {
		if rng.Chance(0) {
			t.Fatal("Chance(0) hit")
		}
		if !rng.Chance(1) {
			t.Fatal("Chance(1) missed")
		}
	}
	if rng.Position() != 0 {
		t.Errorf("extreme chances consumed %d draws, want 0", rng.Position())
	}
}

func TestRNG_Chance_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	hits := 0

	const trials = 10000
	for i := 0; i < trials; i++ {
		if rng.Chance(0.30) {
			hits++
		}
	}

	// 30% of 10000 = 3000, allow ±300.
	if hits < 2700 || hits > 3300 {
		t.Errorf("Chance(0.30) hit %d/%d times, expected ~3000", hits, trials)
	}
}

func TestRNG_Position(t *testing.T) {
	rng := NewRNG(42)

	if rng.Position() != 0 {
		t.Fatalf("initial position should be 0, got %d", rng.Position())
	}

	rng.Intn(6)
	rng.Intn(6)
	rng.Float64()
	rng.Chance(0.5)

	if rng.Position() != 4 {
		t.Fatalf("position after 4 draws should be 4, got %d", rng.Position())
	}
	if rng.Seed() != 42 {
		t.Errorf("Seed = %d, want 42", rng.Seed())
	}
}

func TestRNG_DifferentSeeds(t *testing.T) {
	rng1 := NewRNG(1)
	rng2 := NewRNG(2)

	same := true
	for i := 0; i < 20; i++ {
		if rng1.Intn(100) != rng2.Intn(100) {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical sequences")
	}
}
