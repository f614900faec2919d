package enchant

import (
	"testing"
)

func TestDrawBounds(t *testing.T) {
	got, err := Draw(0, NewSeededRNG(1))
	if err != nil || got {
		t.Fatalf("p=0 should never hit; got=%v err=%v", got, err)
	}
	got, err = Draw(1, NewSeededRNG(1))
	if err != nil || !got {
		t.Fatalf("p=1 should always hit; got=%v err=%v", got, err)
	}
	if _, err := Draw(-0.1, nil); err == nil {
		t.Fatalf("negative p must error")
	}
	if _, err := Draw(1.1, nil); err == nil {
		t.Fatalf("p>1 must error")
	}
}

func TestDrawStatApprox(t *testing.T) {
	const p = 0.3
	const n = 100000
	rng := NewSeededRNG(42)
	hit := 0
	for i := 0; i < n; i++ {
		ok, err := Draw(p, rng)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			hit++
		}
	}
	freq := float64(hit) / float64(n)
	// should be around 0.3
	if diff := freq - p; diff > 0.01 || diff < -0.01 {
		t.Fatalf("freq=%f not close to p=%f", freq, p)
	}
}

func TestNextLevel(t *testing.T) {
	cases := []struct {
		level   int
		success bool
		want    int
	}{
		{0, true, 1},
		{0, false, 0},
		{3, true, 4},
		{3, false, 2},
	}
	for _, c := range cases {
		if got := NextLevel(c.level, c.success); got != c.want {
			t.Errorf("NextLevel(%d, %v) = %d, want %d", c.level, c.success, got, c.want)
		}
	}
}

func TestAttempt(t *testing.T) {
	e := Default()

	res, err := e.Attempt(0, White, Minor, NewSeededRNG(7))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.ToLevel != 1 || res.SuccessRate != 100 {
		t.Fatalf("certain attempt: %+v", res)
	}

	// already at cap
	res, err = e.Attempt(1, White, Minor, NewSeededRNG(7))
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.ToLevel != 1 {
		t.Fatalf("attempt at cap must be a no-op: %+v", res)
	}
}
