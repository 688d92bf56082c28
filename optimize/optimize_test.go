package optimize

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
)

func TestSearchQuadratic(t *testing.T) {
	t.Parallel()
	objective := func(x []float64) (float64, error) {
		return (x[0] - 2) * (x[0] - 2), nil
	}
	res, err := Search(objective, []float64{9}, [][2]float64{{0, 10}}, Config{MaxEvaluations: 200})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if res.Status != Converged {
		t.Fatalf("%s", res.Status)
	}
	if math.Abs(res.X[0]-2) > 0.01 {
		t.Fatalf("%f, expected 2", res.X[0])
	}
	if res.Evaluations > 200 {
		t.Fatalf("%d", res.Evaluations)
	}
}

func TestSearchNoisy(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(5, 5))
	objective := func(x []float64) (float64, error) {
		return (x[0]-2)*(x[0]-2) + 0.01*(rng.Float64()-0.5), nil
	}
	res, err := Search(objective, []float64{0.5}, [][2]float64{{0, 10}}, Config{MaxEvaluations: 500})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// Noise never stalls termination indefinitely.
	if res.Status != Converged && res.Status != BudgetExhausted {
		t.Fatalf("%s", res.Status)
	}
	if math.Abs(res.X[0]-2) > 0.5 {
		t.Fatalf("%f, expected 2", res.X[0])
	}
}

func TestSearchBoundsRespected(t *testing.T) {
	t.Parallel()
	bounds := [][2]float64{{0, 5}, {-1, 1}}
	objective := func(x []float64) (float64, error) {
		return -x[0] + x[1], nil
	}
	observed := 0
	cfg := Config{
		MaxEvaluations: 300,
		Observe: func(eval int, x []float64, f float64, err error) {
			observed++
			for d, b := range bounds {
				if x[d] < b[0] || x[d] > b[1] {
					t.Fatalf("%d: %v outside %v", eval, x, bounds)
				}
			}
		},
	}
	res, err := Search(objective, []float64{2.5, 0}, bounds, cfg)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if observed != res.Evaluations {
		t.Fatalf("%d, expected %d", observed, res.Evaluations)
	}
	// The minimum of the linear objective is the corner (5, -1).
	if math.Abs(res.X[0]-5) > 0.01 || math.Abs(res.X[1]-(-1)) > 0.01 {
		t.Fatalf("%v", res.X)
	}
}

func TestSearchBudgetExhausted(t *testing.T) {
	t.Parallel()
	objective := func(x []float64) (float64, error) {
		return x[0] * x[0], nil
	}
	res, err := Search(objective, []float64{4}, [][2]float64{{-5, 5}}, Config{MaxEvaluations: 5})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if res.Status != BudgetExhausted {
		t.Fatalf("%s", res.Status)
	}
	if res.Evaluations > 5 {
		t.Fatalf("%d", res.Evaluations)
	}
}

func TestSearchBestSoFar(t *testing.T) {
	t.Parallel()
	// The objective returns an outlier low value once, away from the minimum.
	calls := 0
	objective := func(x []float64) (float64, error) {
		calls++
		if calls == 2 {
			return -100, nil
		}
		return x[0] * x[0], nil
	}
	res, err := Search(objective, []float64{4}, [][2]float64{{-5, 5}}, Config{MaxEvaluations: 100})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// The best observed point is returned, not the last evaluated one.
	if res.F != -100 {
		t.Fatalf("%f", res.F)
	}
}

func TestSearchInitialEvalFails(t *testing.T) {
	t.Parallel()
	objective := func(x []float64) (float64, error) {
		return 0, errors.Errorf("backend down")
	}
	res, err := Search(objective, []float64{1}, [][2]float64{{0, 2}}, Config{MaxEvaluations: 10})
	if err == nil {
		t.Fatalf("expected error")
	}
	if res.Status != Aborted {
		t.Fatalf("%s", res.Status)
	}
}

func TestSearchIntermittentEvalFails(t *testing.T) {
	t.Parallel()
	calls := 0
	objective := func(x []float64) (float64, error) {
		calls++
		if calls%3 == 0 {
			return 0, errors.Errorf("transient")
		}
		return (x[0] - 2) * (x[0] - 2), nil
	}
	res, err := Search(objective, []float64{4}, [][2]float64{{0, 10}}, Config{MaxEvaluations: 500})
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// Failed probes are skipped, never treated as zero cost.
	if res.Status != Converged && res.Status != BudgetExhausted {
		t.Fatalf("%s", res.Status)
	}
	if res.F < 0 {
		t.Fatalf("%f", res.F)
	}
	if math.Abs(res.X[0]-2) > 1.5 {
		t.Fatalf("%f, expected 2", res.X[0])
	}
}

func TestSearchBadInput(t *testing.T) {
	t.Parallel()
	objective := func(x []float64) (float64, error) { return 0, nil }
	if _, err := Search(objective, []float64{1, 2}, [][2]float64{{0, 1}}, Config{MaxEvaluations: 10}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := Search(objective, []float64{1}, [][2]float64{{1, 0}}, Config{MaxEvaluations: 10}); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := Search(objective, []float64{1}, [][2]float64{{0, 2}}, Config{}); err == nil {
		t.Fatalf("expected error")
	}
}
