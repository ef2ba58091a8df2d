package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rhartert/genpce/internal/dimacsio"
	"github.com/rhartert/genpce/internal/genpce"
	"github.com/rhartert/genpce/internal/sat"
)

const (
	exitCompletedOrOptimal = 10
	exitNotOptimal         = 20
	exitIOError            = 1
)

var (
	flagMUS          = flag.Bool("mus", false, "shrink learned clauses with a MUS pass before adding them")
	flagMinimal      = flag.Bool("minimal", false, "run clause-redundancy minimization after building")
	flagMinimalLock  = flag.Bool("minimal-lock", false, "minimize with the reason-locking heuristic")
	flagOptimal      = flag.Bool("optimal", false, "check whether the reference is already propagation-complete")
	flagOptimalNaive = flag.Bool("optimal-naive", false, "like -optimal, but without fingerprint memoization")
	flagRandom       = flag.Bool("random", false, "shuffle the input variable order before building")
	flagSeed         = flag.Int64("seed", 91648253, "random seed used by -random")
	flagGreedy       = flag.Bool("greedy", false, "greedily promote auxiliary variables into inputs")
	flagPrint        = flag.Bool("print", false, "print the resulting encoding in DIMACS form")
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 {
		return nil, fmt.Errorf("missing reference DIMACS file")
	}

	cfg := &config{
		referenceFile: flag.Arg(0),
		mus:           *flagMUS,
		minimal:       *flagMinimal || *flagMinimalLock,
		minimalLock:   *flagMinimalLock,
		optimal:       *flagOptimal || *flagOptimalNaive,
		optimalNaive:  *flagOptimalNaive,
		random:        *flagRandom,
		seed:          *flagSeed,
		greedy:        *flagGreedy,
		print:         *flagPrint,
	}
	if flag.NArg() >= 2 {
		cfg.seedFile = flag.Arg(1)
	}
	return cfg, nil
}

type config struct {
	referenceFile string
	seedFile      string

	mus          bool
	minimal      bool
	minimalLock  bool
	optimal      bool
	optimalNaive bool
	random       bool
	seed         int64
	greedy       bool
	print        bool
}

func run(cfg *config, out io.Writer) (exitCode int, err error) {
	refInst, err := dimacsio.ParseFile(cfg.referenceFile)
	if err != nil {
		return exitIOError, fmt.Errorf("could not parse reference: %w", err)
	}

	rSolver := sat.NewSolver(sat.Options{})
	if err := refInst.Instantiate(rSolver); err != nil {
		return exitIOError, fmt.Errorf("could not load reference: %w", err)
	}
	r := &genpce.SolverEngine{Solver: rSolver}

	tSolver := sat.NewSolver(sat.Options{})
	for i := 0; i < refInst.NumVars; i++ {
		tSolver.AddVariable()
	}
	t := &genpce.SolverEngine{Solver: tSolver}

	var seedClauses int
	if cfg.seedFile != "" {
		seedInst, err := dimacsio.ParseFile(cfg.seedFile)
		if err != nil {
			return exitIOError, fmt.Errorf("could not parse seed encoding: %w", err)
		}
		if err := dimacsio.LoadSeed(seedInst, tSolver); err != nil {
			return exitIOError, fmt.Errorf("could not load seed encoding: %w", err)
		}
		seedClauses = len(seedInst.Clauses)
	}

	inputs := toOneIndexed(refInst.Inputs)
	if len(inputs) == 0 {
		inputs = allVars(refInst.NumVars)
	}

	printFileStats(out, cfg, refInst, seedClauses, inputs)

	newEngine := func() genpce.Engine { return genpce.NewSolverEngine(sat.Options{}) }

	switch {
	case cfg.optimal:
		result := genpce.CheckOptimal(r, inputs, cfg.optimalNaive)
		fmt.Fprintf(out, "c :: assignments analyzed :: %d\n", result.AssignmentsAnalyzed)
		fmt.Fprintf(out, "c optimal: %t\n", result.Optimal)
		if !result.Optimal {
			return exitNotOptimal, nil
		}
		return exitCompletedOrOptimal, nil

	case cfg.greedy:
		greedyResult := genpce.GreedyOptimization(r, inputs, refInst.NumVars, newEngine,
			genpce.BuildOptions{Random: cfg.random, Seed: cfg.seed, MUS: cfg.mus},
			genpce.MinimizeOptions{Lock: cfg.minimalLock})

		fmt.Fprintf(out, "c :: greedy optimization ::\n")
		dimacsio.WriteInputs(out, toZeroIndexed(greedyResult.Inputs))
		dimacsio.WriteAuxiliary(out, toZeroIndexed(greedyResult.Promoted))
		fmt.Fprintf(out, "c clauses: %d\n", greedyResult.ClauseCount)
		return exitCompletedOrOptimal, nil

	default:
		buildResult := genpce.BuildOptimal(r, t, inputs, genpce.BuildOptions{
			Random: cfg.random,
			Seed:   cfg.seed,
			MUS:    cfg.mus,
		})
		fmt.Fprintf(out, "c :: assignments analyzed :: %d\n", buildResult.AssignmentsAnalyzed)
		fmt.Fprintf(out, "c :: clauses learned :: %d\n", buildResult.ClausesLearned)
		if cfg.mus {
			fmt.Fprintf(out, "c :: MUS shrinks :: %d\n", buildResult.MUSShrinks)
		}

		if cfg.minimal {
			minResult, _ := genpce.Minimize(t, newEngine, genpce.MinimizeOptions{Lock: cfg.minimalLock})
			fmt.Fprintf(out, "c :: clause minimization :: %d -> %d\n", t.NumClauses()+t.NumUnits(), minResult.ClauseCount)
			if cfg.print {
				dimacsio.WriteInputs(out, toZeroIndexed(inputs))
				genpce.PrintMinimized(out, t, minResult)
			}
			return exitCompletedOrOptimal, nil
		}

		if cfg.print {
			dimacsio.WriteInputs(out, toZeroIndexed(inputs))
			t.PrintFormula(out)
		}
		return exitCompletedOrOptimal, nil
	}
}

func printFileStats(out io.Writer, cfg *config, ref *dimacsio.Instance, seedClauses int, inputs []int) {
	fmt.Fprintf(out, "c reference: %s\n", cfg.referenceFile)
	fmt.Fprintf(out, "c reference variables: %d\n", ref.NumVars)
	fmt.Fprintf(out, "c reference clauses:   %d\n", len(ref.Clauses))
	if cfg.seedFile != "" {
		fmt.Fprintf(out, "c seed:    %s\n", cfg.seedFile)
		fmt.Fprintf(out, "c seed clauses: %d\n", seedClauses)
	}
	dimacsio.WriteInputs(out, toZeroIndexed(inputs))
}

func toOneIndexed(vs []int) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v + 1
	}
	return out
}

func toZeroIndexed(vs []int) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v - 1
	}
	return out
}

func allVars(n int) []int {
	vars := make([]int, n)
	for i := range vars {
		vars[i] = i + 1
	}
	return vars
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	exitCode, err := run(cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(exitCode)
}
