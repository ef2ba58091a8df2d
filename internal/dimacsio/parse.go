// Package dimacsio reads and writes CNF formulas in DIMACS format,
// extended with the "c i v1 v2 ... 0" comment convention GenPCE uses to
// declare which variables are inputs.
package dimacsio

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/rhartert/genpce/internal/sat"
)

// ClauseAdder is the minimal capability dimacsio needs from a solver to load
// a formula into it. internal/sat.Solver satisfies it directly.
type ClauseAdder interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

// Instance is a parsed DIMACS CNF formula together with GenPCE's input
// declaration, if one was present in the file's comments.
type Instance struct {
	NumVars    int
	NumClauses int
	Clauses    [][]sat.Literal

	// Inputs holds the 0-indexed variable ids declared by a "c i v1 v2 ... 0"
	// comment line, in the order they were declared. Nil if the file carried
	// no such comment.
	Inputs []int
}

// ParseFile reads a DIMACS CNF file, transparently gunzipping it if its name
// ends in ".gz".
func ParseFile(filename string) (*Instance, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("error reading file %q: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	}

	return Parse(r)
}

// Parse reads a DIMACS CNF formula from r.
func Parse(r io.Reader) (*Instance, error) {
	b := &builder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, err
	}
	return &b.inst, nil
}

type builder struct {
	inst Instance
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem: %q", problem)
	}
	b.inst.NumVars = nVars
	b.inst.NumClauses = nClauses
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(-l - 1)
		} else {
			clause[i] = sat.PositiveLiteral(l - 1)
		}
	}
	b.inst.Clauses = append(b.inst.Clauses, clause)
	return nil
}

func (b *builder) Comment(text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] != "i" {
		return nil
	}

	for _, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("malformed input declaration %q: %w", text, err)
		}
		if n == 0 {
			break
		}
		b.inst.Inputs = append(b.inst.Inputs, n-1)
	}
	return nil
}

// Instantiate adds the instance's variables and clauses to solver, in
// order. It is the caller's responsibility to call it on a solver with no
// variables yet declared.
func (inst *Instance) Instantiate(solver ClauseAdder) error {
	for i := 0; i < inst.NumVars; i++ {
		solver.AddVariable()
	}
	for _, c := range inst.Clauses {
		if err := solver.AddClause(c); err != nil {
			return err
		}
	}
	return nil
}

// LoadSeed adds a seed encoding's clauses to solver, which must already have
// at least inst.NumVars variables declared (reconciled against the
// reference formula's variable count by the caller, mirroring the original
// GenPCE tool's parse_DIMACS: a seed encoding only ever adds clauses over
// variables the reference formula already has).
func LoadSeed(inst *Instance, solver ClauseAdder) error {
	for _, c := range inst.Clauses {
		if err := solver.AddClause(c); err != nil {
			return err
		}
	}
	return nil
}
