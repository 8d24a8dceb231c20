// Command scan samples random stabilizer states over a range of register
// sizes, recording the entanglement entropy of half the register. Raw samples
// go to a sqlite database per size, summary statistics to a csv on stdout.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/fumin/clifford"
)

const (
	fnameDB         = "entropy.db"
	fnameDone       = "done.txt"
	fnameStatistics = "statistics.txt"
	tableEntropy    = "entropy"
)

var (
	runDir  = flag.String("d", filepath.Join("runs", "clifford"), "run directory")
	maxN    = flag.Int("n", 12, "maximum number of qubits")
	samples = flag.Int("s", 1000, "samples per register size")
	seed    = flag.Uint64("seed", 0, "random seed, 0 derives one from the clock")
)

type Statistics struct {
	N       int
	Samples int
	Mean    float64
	Std     float64
	Min     float64
	Max     float64
}

func scan(dir string, rng *rand.Rand, n, numSamples int) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	entropies, err := sample(dir, rng, n, numSamples)
	if err != nil {
		return errors.Wrap(err, "")
	}

	stats := Statistics{N: n, Samples: numSamples}
	stats.Mean = stat.Mean(entropies, nil)
	stats.Std = stat.StdDev(entropies, nil)
	stats.Min, stats.Max = entropies[0], entropies[0]
	for _, e := range entropies {
		stats.Min = min(stats.Min, e)
		stats.Max = max(stats.Max, e)
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

func sample(dir string, rng *rand.Rand, n, numSamples int) ([]float64, error) {
	db, err := newDB(filepath.Join(dir, fnameDB))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	subset := make([]int, n/2)
	for i := range subset {
		subset[i] = i
	}

	entropies := make([]float64, 0, numSamples)
	for trial := 0; trial < numSamples; trial++ {
		state := clifford.RandStabilizer(rng, n)
		e, err := state.Entropy(subset)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		if err := setEntropy(ctx, db, trial, e); err != nil {
			return nil, errors.Wrap(err, "")
		}
		entropies = append(entropies, e)
	}
	return entropies, nil
}

func gather(dir string) ([]Statistics, error) {
	stats := make([]Statistics, 0)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	for _, ent := range entries {
		if _, err := strconv.Atoi(ent.Name()); err != nil {
			continue
		}
		sb, err := os.ReadFile(filepath.Join(dir, ent.Name(), fnameStatistics))
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", ent))
		}
		var s Statistics
		if err := json.Unmarshal(sb, &s); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", ent))
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].N < stats[j].N })
	return stats, nil
}

func setEntropy(ctx context.Context, db *sql.DB, trial int, e float64) error {
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (trial, value) VALUES (?, ?)`, tableEntropy)
	if _, err := db.ExecContext(ctx, sqlStr, trial, e); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %d %f", sqlStr, trial, e))
	}
	return nil
}

func newDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableEntropy)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (trial INTEGER, value REAL, PRIMARY KEY (trial)) STRICT`, tableEntropy)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
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
	if err := os.MkdirAll(*runDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}
	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(s, s+1))

	for n := 2; n <= *maxN; n++ {
		dir := filepath.Join(*runDir, strconv.Itoa(n))
		if err := scan(dir, rng, n, *samples); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%d", n))
		}
		log.Printf("n=%d done", n)
	}

	stats, err := gather(*runDir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	fmt.Printf("n,samples,mean,std,min,max\n")
	for _, s := range stats {
		fmt.Printf("%d,%d,%f,%f,%f,%f\n", s.N, s.Samples, s.Mean, s.Std, s.Min, s.Max)
	}
	return nil
}
