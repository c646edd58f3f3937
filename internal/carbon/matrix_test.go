package carbon

import (
	"errors"
	"math"
	"testing"
)

func threePools() []PoolSpec {
	return []PoolSpec{
		{Name: "litter", TurnoverTime: 3, Allocation: 0.2},
		{Name: "humus", TurnoverTime: 40, Allocation: 0.3},
		{Name: "stable", TurnoverTime: 200, Allocation: 0.5},
	}
}

func TestBuildMatrices(t *testing.T) {
	m, err := Build(threePools(), []Transfer{
		{From: "litter", To: "humus", Fraction: 0.4},
		{From: "humus", To: "stable", Fraction: 0.1},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if m.Dim() != 3 {
		t.Fatalf("expected 3 pools, got %d", m.Dim())
	}

	// diagonal of K is 1/tau
	wantK := []float64{1.0 / 3, 1.0 / 40, 1.0 / 200}
	for i, want := range wantK {
		if got := m.K.At(i, i); math.Abs(got-want) > 1e-15 {
			t.Errorf("K[%d][%d] = %g, want %g", i, i, got, want)
		}
	}

	// A has unit diagonal and the negated transfer fractions off it
	for i := 0; i < 3; i++ {
		if got := m.A.At(i, i); got != 1 {
			t.Errorf("A[%d][%d] = %g, want 1", i, i, got)
		}
	}
	if got := m.A.At(1, 0); got != -0.4 {
		t.Errorf("A[1][0] = %g, want -0.4", got)
	}
	if got := m.A.At(2, 1); got != -0.1 {
		t.Errorf("A[2][1] = %g, want -0.1", got)
	}
	if got := m.A.At(0, 1); got != 0 {
		t.Errorf("A[0][1] = %g, want 0", got)
	}

	wantB := []float64{0.2, 0.3, 0.5}
	for i, want := range wantB {
		if got := m.B.AtVec(i); got != want {
			t.Errorf("b[%d] = %g, want %g", i, got, want)
		}
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name      string
		pools     []PoolSpec
		transfers []Transfer
	}{
		{"no pools", nil, nil},
		{"zero turnover", []PoolSpec{{Name: "a", TurnoverTime: 0, Allocation: 1}}, nil},
		{"negative turnover", []PoolSpec{{Name: "a", TurnoverTime: -2, Allocation: 1}}, nil},
		{"negative allocation", []PoolSpec{
			{Name: "a", TurnoverTime: 1, Allocation: -0.5},
			{Name: "b", TurnoverTime: 1, Allocation: 1.5},
		}, nil},
		{"allocation sum off", []PoolSpec{
			{Name: "a", TurnoverTime: 1, Allocation: 0.5},
			{Name: "b", TurnoverTime: 1, Allocation: 0.2},
		}, nil},
		{"duplicate pool", []PoolSpec{
			{Name: "a", TurnoverTime: 1, Allocation: 0.5},
			{Name: "a", TurnoverTime: 2, Allocation: 0.5},
		}, nil},
		{"unknown transfer source", []PoolSpec{{Name: "a", TurnoverTime: 1, Allocation: 1}},
			[]Transfer{{From: "x", To: "a", Fraction: 0.1}}},
		{"unknown transfer target", []PoolSpec{{Name: "a", TurnoverTime: 1, Allocation: 1}},
			[]Transfer{{From: "a", To: "x", Fraction: 0.1}}},
		{"self transfer", []PoolSpec{{Name: "a", TurnoverTime: 1, Allocation: 1}},
			[]Transfer{{From: "a", To: "a", Fraction: 0.1}}},
		{"fraction above one", []PoolSpec{
			{Name: "a", TurnoverTime: 1, Allocation: 1},
			{Name: "b", TurnoverTime: 2, Allocation: 0},
		}, []Transfer{{From: "a", To: "b", Fraction: 1.2}}},
		{"outgoing sum above one", []PoolSpec{
			{Name: "a", TurnoverTime: 1, Allocation: 1},
			{Name: "b", TurnoverTime: 2, Allocation: 0},
			{Name: "c", TurnoverTime: 3, Allocation: 0},
		}, []Transfer{
			{From: "a", To: "b", Fraction: 0.7},
			{From: "a", To: "c", Fraction: 0.6},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.pools, tt.transfers); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFivePoolFromParams(t *testing.T) {
	pools, transfers, err := FivePoolFromParams(DefaultFivePoolParams())
	if err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
	if len(pools) != 5 {
		t.Fatalf("expected 5 pools, got %d", len(pools))
	}
	for i, name := range FivePoolNames {
		if pools[i].Name != name {
			t.Errorf("pool %d = %q, want %q", i, pools[i].Name, name)
		}
	}
	// turnover times must ascend with the fixed pool order
	for i := 1; i < len(pools); i++ {
		if pools[i].TurnoverTime <= pools[i-1].TurnoverTime {
			t.Errorf("turnover times not ascending: %q (%g) after %q (%g)",
				pools[i].Name, pools[i].TurnoverTime, pools[i-1].Name, pools[i-1].TurnoverTime)
		}
	}
	if _, err := Build(pools, transfers); err != nil {
		t.Fatalf("default params do not build: %v", err)
	}
}

func TestFivePoolFromParamsMissingKey(t *testing.T) {
	for _, key := range []string{"tau_slow", "alloc_passive", "structural_to_slow"} {
		t.Run(key, func(t *testing.T) {
			ps := DefaultFivePoolParams()
			delete(ps, key)

			_, _, err := FivePoolFromParams(ps)
			var missing *MissingParameterError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingParameterError, got %v", err)
			}
			if missing.Key != key {
				t.Errorf("error names key %q, want %q", missing.Key, key)
			}
		})
	}
}
