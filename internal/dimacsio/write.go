package dimacsio

import (
	"fmt"
	"io"
)

// ClauseSource is satisfied directly by *internal/sat.Solver: its own
// PrintUnits/PrintClause/PrintFormula already track root-level-only filtering
// internally (via each variable's decision level), which a DIMACS-side
// reimplementation over a bare Trail() could not do correctly without
// re-exposing that bookkeeping. dimacsio only adds the extension comments
// (input/auxiliary declarations) around the solver's own output.
type ClauseSource interface {
	NumClauses() int
	PrintFormula(w io.Writer)
}

// WriteFormula writes the "c i ..." input declaration and the "c aux ..."
// auxiliary declaration (both always, even when empty), followed by s's full
// clause database as a DIMACS CNF.
func WriteFormula(w io.Writer, s ClauseSource, inputs []int, aux []int) error {
	if err := WriteInputs(w, inputs); err != nil {
		return err
	}
	if err := WriteAuxiliary(w, aux); err != nil {
		return err
	}
	s.PrintFormula(w)
	return nil
}

// WriteInputs writes the "c i v1 v2 ... 0" input-declaration comment for the
// given 0-indexed input variable ids.
func WriteInputs(w io.Writer, inputs []int) error {
	if _, err := fmt.Fprint(w, "c i"); err != nil {
		return err
	}
	for _, v := range inputs {
		if _, err := fmt.Fprintf(w, " %d", v+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, " 0")
	return err
}

// WriteAuxiliary writes the "c aux v1 v2 ..." comment greedyOptimization uses
// to record which variables it promoted from auxiliary to input. Unlike
// WriteInputs, the line carries no trailing "0" terminator and is always
// printed, even when aux is empty, matching the original tool's unconditional
// "c aux" + newline.
func WriteAuxiliary(w io.Writer, aux []int) error {
	if _, err := fmt.Fprint(w, "c aux"); err != nil {
		return err
	}
	for _, v := range aux {
		if _, err := fmt.Fprintf(w, " %d", v+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
