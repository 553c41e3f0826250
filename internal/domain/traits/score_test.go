package traits

import (
	"errors"
	"testing"
)

func mustVector(t *testing.T, vals [Dimensions]int) Vector {
	t.Helper()
	v, err := FromValues(vals)
	if err != nil {
		t.Fatalf("FromValues(%v): %v", vals, err)
	}
	return v
}

func TestScore_Identical_Is100(t *testing.T) {
	for _, vals := range [][Dimensions]int{
		{8, 6, 7, 9, 5, 8},
		{1, 1, 1, 1, 1, 1},
		{10, 10, 10, 10, 10, 10},
		{3, 9, 2, 7, 4, 6},
	} {
		v := mustVector(t, vals)
		if got := Score(v, v); got != 100 {
			t.Fatalf("Score(%v, same) = %v, expected 100", vals, got)
		}
	}
}

func TestScore_Symmetric(t *testing.T) {
	a := mustVector(t, [Dimensions]int{8, 6, 7, 9, 5, 8})
	b := mustVector(t, [Dimensions]int{1, 10, 1, 1, 10, 1})
	c := mustVector(t, [Dimensions]int{5, 5, 5, 5, 5, 5})

	pairs := [][2]Vector{{a, b}, {a, c}, {b, c}}
	for _, p := range pairs {
		if Score(p[0], p[1]) != Score(p[1], p[0]) {
			t.Fatalf("expected symmetric score for %v / %v", p[0], p[1])
		}
	}
}

func TestScore_OppositeExtremes_IsZero(t *testing.T) {
	low := mustVector(t, [Dimensions]int{1, 1, 1, 1, 1, 1})
	high := mustVector(t, [Dimensions]int{10, 10, 10, 10, 10, 10})

	if d := TotalDiff(low, high); d != MaxTotalDiff {
		t.Fatalf("expected total diff %d, got %d", MaxTotalDiff, d)
	}
	if got := Score(low, high); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestScore_KnownPair(t *testing.T) {
	adopter := mustVector(t, [Dimensions]int{8, 6, 7, 9, 5, 8})
	pet := mustVector(t, [Dimensions]int{1, 10, 1, 1, 10, 1})

	if d := TotalDiff(adopter, pet); d != 37 {
		t.Fatalf("expected total diff 37, got %d", d)
	}
	got := Score(adopter, pet)
	if got != 31.48 {
		t.Fatalf("expected 31.48, got %v", got)
	}
	if IsMatch(got) {
		t.Fatalf("expected no match for %v", got)
	}
}

func TestIsMatch_ThresholdInclusive(t *testing.T) {
	cases := []struct {
		score float64
		want  bool
	}{
		{100, true},
		{70.0, true},
		{69.99, false},
		{0, false},
	}
	for _, tc := range cases {
		if got := IsMatch(tc.score); got != tc.want {
			t.Fatalf("IsMatch(%v) = %v, expected %v", tc.score, got, tc.want)
		}
	}
}

func TestScore_NearThreshold(t *testing.T) {
	base := mustVector(t, [Dimensions]int{5, 5, 5, 5, 5, 5})

	// diff 16 => 70.37 (match), diff 17 => 68.52 (no match)
	d16 := mustVector(t, [Dimensions]int{8, 8, 8, 8, 9, 5})
	d17 := mustVector(t, [Dimensions]int{8, 8, 8, 8, 10, 5})

	if s := Score(base, d16); s != 70.37 || !IsMatch(s) {
		t.Fatalf("expected 70.37 match, got %v", s)
	}
	if s := Score(base, d17); s != 68.52 || IsMatch(s) {
		t.Fatalf("expected 68.52 no match, got %v", s)
	}
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	_, err := New(0, 5, 5, 5, 5, 5)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	_, err = New(5, 5, 5, 5, 5, 11)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}

	// atributo ausente en JSON => 0
	partial := Vector{Playful: 5, Calm: 5, Energetic: 5, Friendly: 5, Independent: 5}
	if err := partial.Validate(); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected partial vector to fail, got %v", err)
	}
}
