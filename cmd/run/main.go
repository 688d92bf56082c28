// Command run estimates the minimum eigenvalue of a 2-qubit hamiltonian and
// compares it against exact diagonalization.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qvqe"
	"qvqe/pauli"
	"qvqe/sim"
	"qvqe/trace"
)

const (
	fnameStatistics = "statistics.txt"
	fnameTrace      = "trace.db"
	fnameDone       = "done.txt"
)

var (
	runDir      = flag.String("d", filepath.Join("runs", "qvqe"), "run directory")
	hamiltonian = flag.String("hamiltonian", "", "path of a 4x4 hamiltonian CSV, empty for the built-in test matrix")
	shots       = flag.Int("shots", 1000, "samples per expectation estimate")
	evals       = flag.Int("evals", 200, "energy evaluation budget")
	seed        = flag.Uint64("seed", 0, "random seed")
)

type Statistics struct {
	Params        []float64
	Energy        float64
	Exact         float64
	RelativeError float64
	Evaluations   int
	Status        string
}

// testHamiltonian has Pauli decomposition (II - XX - YY + ZZ)/2 and minimum
// eigenvalue -1.
func testHamiltonian() pauli.Matrix {
	var h pauli.Matrix
	h[0][0] = 1
	h[1][2], h[2][1] = -1, -1
	h[3][3] = 1
	return h
}

func readHamiltonian(fpath string) (pauli.Matrix, error) {
	var h pauli.Matrix
	f, err := os.Open(fpath)
	if err != nil {
		return h, errors.Wrap(err, "")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return h, errors.Wrap(err, "")
	}
	if len(records) != 4 {
		return h, errors.Errorf("%d rows", len(records))
	}
	for i, record := range records {
		if len(record) != 4 {
			return h, errors.Errorf("%d %#v", i, record)
		}
		for j, vStr := range record {
			s := strings.TrimSpace(vStr)
			s = strings.ReplaceAll(s, "j", "i")
			v, err := strconv.ParseComplex(s, 128)
			if err != nil {
				return h, errors.Wrap(err, fmt.Sprintf("%d %d %#v", i, j, record))
			}
			h[i][j] = v
		}
	}
	return h, nil
}

func solve(ctx context.Context, dir string, h pauli.Matrix) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	store, err := trace.Open(filepath.Join(dir, fnameTrace))
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer store.Close()

	cfg := qvqe.Config{
		Shots:          *shots,
		MaxEvaluations: *evals,
		Seed:           *seed,
		Observe: func(eval int, params []float64, energy float64, evalErr error) {
			if err := store.RecordEval(ctx, eval, params, energy, evalErr); err != nil {
				log.Printf("%+v", err)
			}
		},
	}
	res, err := qvqe.Minimize(ctx, sim.New(*seed), h, cfg)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := store.RecordResult(ctx, res.Params, res.Energy, res.Evaluations, res.Status.String()); err != nil {
		return errors.Wrap(err, "")
	}

	exact := pauli.Eigen(h)[0].Val
	stats := Statistics{
		Params:      res.Params,
		Energy:      res.Energy,
		Exact:       exact,
		Evaluations: res.Evaluations,
		Status:      res.Status.String(),
	}
	if exact != 0 {
		stats.RelativeError = math.Abs(res.Energy-exact) / math.Abs(exact)
	}

	b, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.WriteFile(filepath.Join(dir, fnameStatistics), b, 0644); err != nil {
		return errors.Wrap(err, "")
	}

	if err := os.WriteFile(donePath, nil, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	ctx := context.Background()

	h := testHamiltonian()
	if *hamiltonian != "" {
		var err error
		h, err = readHamiltonian(*hamiltonian)
		if err != nil {
			return errors.Wrap(err, "")
		}
	}

	if err := solve(ctx, *runDir, h); err != nil {
		return errors.Wrap(err, "")
	}

	sb, err := os.ReadFile(filepath.Join(*runDir, fnameStatistics))
	if err != nil {
		return errors.Wrap(err, "")
	}
	var stats Statistics
	if err := json.Unmarshal(sb, &stats); err != nil {
		return errors.Wrap(err, "")
	}

	fmt.Printf("energy,exact,relerr,evaluations,status\n")
	fmt.Printf("%f,%f,%f,%d,%s\n", stats.Energy, stats.Exact, stats.RelativeError, stats.Evaluations, stats.Status)
	return nil
}
