package sat

import (
	"fmt"
	"io"
	"log"
	"sort"
	"time"
)

// Solver is an incremental, watch-list based CDCL SAT engine in the
// MiniSAT/Glucose family. Beyond plain satisfiability it exposes the
// capability set internal/genpce's algorithms are built against: solving
// under assumptions with unsat-core extraction (Solve), BCP-only probing
// (PropagateAssumptions), trail/clause introspection, and a clause "locking"
// facility used by the redundancy minimizer.
type Solver struct {
	// Clause database.
	constraints []*Clause
	learnts     []*Clause
	clauseInc   float64
	clauseDecay float64

	// Variable ordering (owns its own activity bookkeeping).
	order *VarOrder

	// Propagation and watchers.
	watchers  [][]watcher
	propQueue *Queue[Literal]

	// Value assigned to each literal.
	assigns []LBool

	// Trail.
	trail    []Literal
	trailLim []int
	reason   []*Clause
	level    []int

	// Whether the problem has reached a top level conflict.
	unsat bool

	// Assumptions being solved under, and the unsat core discovered against
	// them (negated, forming a clause entailed by the formula). Populated by
	// Solve; read back by the caller immediately after.
	assumptions []Literal
	conflict    []Literal

	// numRealVars is the boundary set by SetAssumptions: variables below it
	// are "real" variables of the encoding, the rest are selector variables
	// introduced by a clause-redundancy clone. -1 means unset (all real).
	numRealVars int

	// Search statistics.
	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
	startTime       time.Time

	// Running average of learnt-clause LBD (literal block distance), reported
	// in the search statistics. ReduceDB orders by each clause's own lbd.
	lbdAvg EMA

	// Stop conditions.
	hasStopCond bool
	maxConflict int64
	timeout     time.Duration

	// Models.
	Models [][]bool

	// Whether search progress is logged to stdout.
	verbose bool

	// Shared by operations that need to put variables in a set and empty
	// that set efficiently.
	seenVar *ResetSet

	// Indices of clauses locked (via LockReason) during the current
	// redundancy-minimization probe, so UndoLocked can roll them back.
	transientLocks []int

	// Temporary slice used in the bcp function. The slice is re-used by all
	// bcp calls to avoid unnecessarily allocating new slices.
	tmpWatchers []watcher

	// Temporary slice used in analyze to accumulate literals before these are
	// used to create a new learnt clause. Having one shared buffer between
	// all calls reduces the overhead of having to grow each time analyze is
	// called.
	tmpLearnts []Literal

	// Used for clauses to explain themselves.
	tmpReason []Literal
}

// watcher represents a clause attached to the watch list of a literal.
type watcher struct {
	// The watching clause to be propagated when the watched literal becomes
	// true.
	clause *Clause

	// Guard is one of the clause's literals. If it is true, then there is
	// no need to propagate the clause. Note that the guard literal must be
	// different from the watcher literal.
	guard Literal
}

type Options struct {
	ClauseDecay   float64
	VariableDecay float64
	MaxConflicts  int64
	Timeout       time.Duration
	PhaseSaving   bool
	Verbose       bool
}

var DefaultOptions = Options{
	ClauseDecay:   0.999,
	VariableDecay: 0.95,
	MaxConflicts:  -1,
	Timeout:       -1,
	PhaseSaving:   false,
}

// NewDefaultSolver returns a solver configured with default options. This is
// equivalent to calling NewSolver with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

func NewSolver(ops Options) *Solver {
	s := &Solver{
		clauseDecay: ops.ClauseDecay,
		clauseInc:   1,
		propQueue:   NewQueue[Literal](128),
		maxConflict: -1,
		timeout:     -1,
		seenVar:     &ResetSet{},
		order:       NewVarOrder(ops.VariableDecay, ops.PhaseSaving),
		numRealVars: -1,
		verbose:     ops.Verbose,
		lbdAvg:      NewEMA(0.95),
	}

	if ops.MaxConflicts >= 0 {
		s.hasStopCond = true
		s.maxConflict = ops.MaxConflicts
	}
	if ops.Timeout >= 0 {
		s.hasStopCond = true
		s.timeout = ops.Timeout
	}

	return s
}

func (s *Solver) shouldStop() bool {
	if !s.hasStopCond {
		return false
	}
	if s.maxConflict >= 0 && s.maxConflict <= s.TotalConflicts {
		return true
	}
	if s.timeout >= 0 && s.timeout <= time.Since(s.startTime) {
		return true
	}

	return false
}

func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

func (s *Solver) NumConstraints() int {
	return len(s.constraints)
}

// NumClauses is an alias of NumConstraints matching the n_clauses capability
// named in the solver contract; it never counts learnt clauses, which the
// clause-redundancy minimizer never produces on the solvers it introspects.
func (s *Solver) NumClauses() int {
	return len(s.constraints)
}

// NumUnits returns the number of variables fixed at the root decision level.
func (s *Solver) NumUnits() int {
	n := 0
	for _, l := range s.trail {
		if s.level[l.VarID()] == 0 {
			n++
		}
	}
	return n
}

func (s *Solver) NumLearnts() int {
	return len(s.learnts)
}

func (s *Solver) VarValue(x int) LBool {
	return s.assigns[PositiveLiteral(x)]
}

func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

// Trail returns the current stack of assigned literals in assignment order.
// The returned slice is owned by the solver and must not be retained or
// mutated past the next call that changes the trail.
func (s *Solver) Trail() []Literal {
	return s.trail
}

func (s *Solver) AddVariable() int {
	index := s.NumVariables()
	s.watchers = append(s.watchers, nil)
	s.watchers = append(s.watchers, nil)
	s.reason = append(s.reason, nil)
	s.seenVar.Expand()

	// One for each literal.
	s.assigns = append(s.assigns, Unknown)
	s.assigns = append(s.assigns, Unknown)

	s.level = append(s.level, -1)
	s.order.AddVar(0, false)
	return index
}

// SetAssumptions declares the first k variables as the "real" variables of
// the encoding; any beyond that (added afterwards) are treated as selector
// variables by the clause-redundancy minimizer.
func (s *Solver) SetAssumptions(k int) {
	s.numRealVars = k
}

// NumRealVars returns the boundary set by SetAssumptions, or the solver's
// full variable count if it was never called.
func (s *Solver) NumRealVars() int {
	if s.numRealVars < 0 {
		return s.NumVariables()
	}
	return s.numRealVars
}

// Watch registers clause c to be awaken when Literal watch is assigned to true.
func (s *Solver) Watch(c *Clause, watch Literal, guard Literal) {
	s.watchers[watch] = append(s.watchers[watch], watcher{
		clause: c,
		guard:  guard,
	})
}

// Unwatch removes clause c from the list of watchers.
func (s *Solver) Unwatch(c *Clause, watch Literal) {
	j := 0
	for i := 0; i < len(s.watchers[watch]); i++ {
		if s.watchers[watch][i].clause != c {
			s.watchers[watch][j] = s.watchers[watch][i]
			j++
		}
	}
	s.watchers[watch] = s.watchers[watch][:j]
}

func (s *Solver) AddClause(clause []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("can only add clauses at the root level")
	}
	_, ok := NewClause(s, clause, false)
	if !ok {
		s.unsat = true
	}

	return nil
}

// GetClause returns the literals of the i-th stored problem clause (see the
// note on clause indices on Clause).
func (s *Solver) GetClause(i int) []Literal {
	return s.constraints[i].Literals()
}

// IsLocked reports whether the i-th clause has been locked by LockReason,
// either in the current probe or a previous one on this solver.
func (s *Solver) IsLocked(i int) bool {
	return s.constraints[i].isLocked()
}

// LockReason marks the clause that is currently the propagation reason for
// variable v as locked, protecting it from being judged redundant. It is a
// no-op if v has no reason clause (e.g. it is a decision/assumption
// literal, or was fixed at the root by a unit clause).
func (s *Solver) LockReason(v int) {
	c := s.reason[v]
	if c == nil || c.index < 0 {
		return
	}
	if !c.isLocked() {
		c.setLocked()
		s.transientLocks = append(s.transientLocks, c.index)
	}
}

// UndoLocked reverts every lock set by LockReason since the last
// ClearLocked/UndoLocked call, used when a probed clause did not turn out
// to be redundant after all.
func (s *Solver) UndoLocked() {
	for _, idx := range s.transientLocks {
		s.constraints[idx].setUnlocked()
	}
	s.transientLocks = s.transientLocks[:0]
}

// ClearLocked resets the transient-lock tracking list without undoing the
// locks, used once a probed clause has been confirmed redundant and its
// supporting reasons should remain permanently locked.
func (s *Solver) ClearLocked() {
	s.transientLocks = s.transientLocks[:0]
}

// Simplify propagates pending root-level assignments, then simplifies the
// learnt clauses against them and removes those satisfied at the root level.
// Problem clauses are left unchanged.
func (s *Solver) Simplify() bool {
	if l := s.decisionLevel(); l != 0 {
		log.Fatalf("Simplify called on non root-level: %d", l)
	}
	if s.propQueue.Size() != 0 {
		log.Fatal("propQueue should be empty when calling simplify")
	}

	if s.unsat || s.bcp() != nil {
		s.unsat = true
		return false
	}

	s.simplifyLearnts()

	return true
}

// simplifyLearnts simplifies learnt clauses and removes those that are
// satisfied at the root level. Problem clauses (s.constraints) are left
// alone: removing one would shift the stable indices GetClause/IsLocked
// depend on.
func (s *Solver) simplifyLearnts() {
	j := 0
	for i := 0; i < len(s.learnts); i++ {
		if s.learnts[i].Simplify(s) {
			s.learnts[i].Delete(s)
		} else {
			s.learnts[j] = s.learnts[i]
			j++
		}
	}
	s.learnts = s.learnts[:j]
}

func (s *Solver) ReduceDB() {
	if len(s.learnts) == 0 {
		return
	}
	lim := s.clauseInc / float64(len(s.learnts))

	sort.Slice(s.learnts, func(i, j int) bool {
		if s.learnts[i].lbd != s.learnts[j].lbd {
			return s.learnts[i].lbd > s.learnts[j].lbd
		}
		return s.learnts[i].activity < s.learnts[j].activity
	})

	i, j := 0, 0
	for ; i < len(s.learnts)/2; i++ {
		if s.learnts[i].isProtected() || s.learnts[i].isReasonFor(s) {
			s.learnts[j] = s.learnts[i]
			j++
		} else {
			s.learnts[i].Delete(s)
		}
	}

	for ; i < len(s.learnts); i++ {
		if s.learnts[i].isReasonFor(s) || (s.learnts[i].activity >= lim && !s.learnts[i].isProtected()) {
			s.learnts[j] = s.learnts[i]
			j++
		} else if s.learnts[i].isProtected() {
			s.learnts[j] = s.learnts[i]
			j++
		} else {
			s.learnts[i].Delete(s)
		}
	}

	s.learnts = s.learnts[:j]
}

func (s *Solver) decisionLevel() int {
	return len(s.trailLim)
}

func (s *Solver) newDecisionLevel() {
	s.trailLim = append(s.trailLim, len(s.trail))
}

// Solve attempts to satisfy the clause database under the given assumptions.
// On SAT it records a model in s.Models. On UNSAT it returns a conflict: a
// subset of the negated assumptions sufficient to explain the inconsistency,
// suitable for direct use as a learnt clause (it is entailed by the
// formula).
func (s *Solver) Solve(assumptions []Literal) (LBool, []Literal) {
	s.cancelUntil(0)
	s.assumptions = assumptions
	s.conflict = s.conflict[:0]

	numConflicts := 100
	numLearnts := s.NumConstraints()/3 + len(assumptions) + 1
	status := Unknown
	s.startTime = time.Now()

	if s.verbose {
		s.printSeparator()
		s.printSearchHeader()
		s.printSeparator()
	}

	for status == Unknown {
		status = s.Search(numConflicts, numLearnts)
		numConflicts += numConflicts / 10
		numLearnts += numLearnts / 20

		if s.shouldStop() {
			break
		}
	}

	if s.verbose {
		s.printSearchStats()
		s.printSeparator()
	}

	out := append([]Literal(nil), s.conflict...)
	s.cancelUntil(0)
	s.assumptions = nil
	return status, out
}

// PropagateAssumptions attempts unit propagation alone (no decisions beyond
// the given assumptions) and reports whether it succeeded. On success the
// trail (readable via Trail) holds every literal BCP derives from the
// assumptions; on failure the solver's state after the call is unspecified
// and must not be read before the next Solve/PropagateAssumptions call.
func (s *Solver) PropagateAssumptions(assumptions []Literal) bool {
	s.cancelUntil(0)
	if s.unsat {
		return false
	}

	for _, lit := range assumptions {
		switch s.LitValue(lit) {
		case False:
			return false
		case True:
			continue
		default:
			s.newDecisionLevel()
			s.enqueue(lit, nil)
			if s.bcp() != nil {
				return false
			}
		}
	}
	return true
}

func (s *Solver) BumpClaActivity(c *Clause) {
	c.activity += s.clauseInc

	if c.activity > 1e100 {
		s.clauseInc *= 1e-100 // important to keep proportions
		for _, l := range s.learnts {
			l.activity *= 1e-100
		}
	}
}

func (s *Solver) BumpVarActivity(l Literal) {
	s.order.BumpScore(l.VarID())
}

func (s *Solver) DecayClaActivity() {
	s.clauseInc *= s.clauseDecay
}

func (s *Solver) DecayVarActivity() {
	s.order.DecayScores()
}

// bcp drains the propagation queue, returning the first clause found
// conflicting, or nil if a fixpoint was reached without conflict.
func (s *Solver) bcp() *Clause {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		s.tmpWatchers = s.tmpWatchers[:0]
		s.tmpWatchers = append(s.tmpWatchers, s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			// No need to propagate the clause if its guard is true. This block
			// is not necessary for propagation to behave properly. However, it
			// helps to significantly speed-up computation by avoiding loading
			// clause (in memory) that do not need to be propagated. Note that
			// this alters the order in which clause are propagated and can thus
			// yield to different conflict analysis and learnt clauses.
			if s.LitValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}

			if w.clause.Propagate(s, l) {
				continue
			}

			// Constraint is conflicting, copy remaining watchers
			// and return the constraint.
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.propQueue.Clear()
			return s.tmpWatchers[i].clause
		}
	}

	return nil
}

func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch v := s.LitValue(l); v {
	case False:
		return false // conflicting assignment
	case True:
		return true // already assigned
	default:
		// New fact, store it.
		varID := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[varID] = s.decisionLevel()
		s.reason[varID] = from
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

func (s *Solver) explain(c *Clause, l Literal) []Literal {
	if l == -1 {
		return c.ExplainFailure(s)
	} else {
		return c.ExplainAssign(s, l)
	}
}

func (s *Solver) analyze(confl *Clause) ([]Literal, int) {
	// Current number of "implication" nodes encountered in the exploration of
	// the decision level. A value of 0 indicates that the exploration has
	// reached a single implication point.
	nImplicationPoints := 0

	// Empty the buffer of literals in which the learnt clause will be stored.
	// Note that the first literal is reserved for the FUIP which is set at the
	// of this function.
	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, -1)

	// Next literal to look at. This is used to iterate over the trail without
	// actually undoing the literal assignments.
	nextLiteral := len(s.trail) - 1

	l := Literal(-1) // unknown literal used to represent the conflict
	s.seenVar.Clear()
	backtrackLevel := 0

	for {
		for _, q := range s.explain(confl, l) {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}

			s.seenVar.Add(v)
			if s.level[v] == s.decisionLevel() {
				nImplicationPoints++
				continue
			}

			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if level := s.level[v]; level > backtrackLevel {
				backtrackLevel = level
			}
		}

		// Select next literal to look at.
		for {
			l = s.trail[nextLiteral]
			nextLiteral--
			v := l.VarID()
			confl = s.reason[v]
			if s.seenVar.Contains(v) {
				break
			}
		}

		nImplicationPoints--
		if nImplicationPoints <= 0 {
			break
		}
	}

	// Add literal corresponding to the FUIP.
	s.tmpLearnts[0] = l.Opposite()

	return s.tmpLearnts, backtrackLevel
}

// analyzeFinal computes, into s.conflict, the subset of s.assumptions
// responsible for the assumption literal p being found already false at
// decision time. Each entry is the negation of a responsible assumption, so
// the result is directly usable as a learnt clause (MiniSAT's incremental
// analyzeFinal).
func (s *Solver) analyzeFinal(p Literal) {
	s.conflict = s.conflict[:0]
	s.conflict = append(s.conflict, p)

	if s.decisionLevel() == 0 {
		return
	}

	s.seenVar.Clear()
	s.seenVar.Add(p.VarID())

	start := s.trailLim[0]
	for i := len(s.trail) - 1; i >= start; i-- {
		v := s.trail[i].VarID()
		if !s.seenVar.Contains(v) {
			continue
		}
		if r := s.reason[v]; r == nil {
			if s.level[v] > 0 {
				s.conflict = append(s.conflict, s.trail[i].Opposite())
			}
		} else {
			for _, q := range r.Literals()[1:] {
				if s.level[q.VarID()] > 0 {
					s.seenVar.Add(q.VarID())
				}
			}
		}
	}
}

func (s *Solver) computeLBD(lits []Literal) int {
	levels := make(map[int]struct{}, len(lits))
	for _, l := range lits {
		levels[s.level[l.VarID()]] = struct{}{}
	}
	return len(levels)
}

func (s *Solver) record(clause []Literal) {
	c, _ := NewClause(s, clause, true)
	s.enqueue(clause[0], c)
	if c != nil {
		c.lbd = s.computeLBD(clause)
		s.lbdAvg.Add(float64(c.lbd))
		s.learnts = append(s.learnts, c)
	}
}

func (s *Solver) Search(nConflicts int, nLearnts int) LBool {
	if s.unsat {
		return False
	}

	s.TotalRestarts++
	conflictCount := 0

	for !s.shouldStop() {
		if s.verbose && s.TotalIterations%10000 == 0 {
			s.printSearchStats()
		}
		s.TotalIterations++

		if conflict := s.bcp(); conflict != nil {
			conflictCount++
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learntClause, backtrackLevel := s.analyze(conflict)
			s.cancelUntil(backtrackLevel)

			s.record(learntClause)

			s.DecayClaActivity()
			s.DecayVarActivity()

			continue
		}

		// No Conflict
		// -----------

		if s.decisionLevel() == 0 {
			s.Simplify()
		}

		if len(s.learnts)-s.NumAssigns() >= nLearnts {
			s.ReduceDB()
		}

		// Every assumption must have been placed (and checked) before a full
		// assignment counts as a solution.
		if s.NumAssigns() == s.NumVariables() && s.decisionLevel() >= len(s.assumptions) { // solution found
			s.saveModel()
			s.cancelUntil(0)
			return True
		}

		if conflictCount > nConflicts {
			s.cancelUntil(0)
			return Unknown
		}

		var next Literal
		if s.decisionLevel() < len(s.assumptions) {
			p := s.assumptions[s.decisionLevel()]
			switch s.LitValue(p) {
			case True:
				// Already implied; advance the decision level without
				// deciding anything so the next assumption is examined next.
				s.newDecisionLevel()
				continue
			case False:
				s.analyzeFinal(p.Opposite())
				return False
			default:
				next = p
			}
		} else {
			next = s.order.NextDecision(s)
		}
		s.assume(next)
	}

	return Unknown
}

func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.VarID()

	s.order.Reinsert(v, Lift(l.IsPositive()))
	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = nil
	s.level[v] = -1

	s.trail = s.trail[:len(s.trail)-1]
}

func (s *Solver) assume(l Literal) bool {
	s.newDecisionLevel()
	return s.enqueue(l, nil)
}

func (s *Solver) cancel() {
	c := len(s.trail) - s.trailLim[len(s.trailLim)-1]
	for ; c != 0; c-- {
		s.undoOne()
	}
	s.trailLim = s.trailLim[:len(s.trailLim)-1]
}

func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		s.cancel()
	}
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		lb := s.VarValue(i)
		if lb == Unknown {
			panic("not a model")
		}
		model[i] = lb == True
	}
	s.Models = append(s.Models, model)
}

func (s *Solver) printSeparator() {
	fmt.Println("c ---------------------------------------------------------------------------")
}

func (s *Solver) printSearchHeader() {
	fmt.Println("c            time     iterations      conflicts       restarts        learnts            lbd")
}

func (s *Solver) printSearchStats() {
	fmt.Printf(
		"c %14.3fs %14d %14d %14d %14d %14.2f\n",
		time.Since(s.startTime).Seconds(),
		s.TotalIterations,
		s.TotalConflicts,
		s.TotalRestarts,
		len(s.learnts),
		s.lbdAvg.Val())
}

// PrintUnits writes one line per root-level fixed literal, in DIMACS
// notation, each terminated by "0".
func (s *Solver) PrintUnits(w io.Writer) {
	for _, l := range s.trail {
		if s.level[l.VarID()] == 0 {
			fmt.Fprintf(w, "%d 0\n", l.ToDimacs())
		}
	}
}

// PrintClause writes the i-th clause in DIMACS notation.
func (s *Solver) PrintClause(w io.Writer, i int) {
	for _, l := range s.constraints[i].Literals() {
		fmt.Fprintf(w, "%d ", l.ToDimacs())
	}
	fmt.Fprintln(w, "0")
}

// PrintFormula writes the solver's full clause database (units, then
// non-unit clauses) as a DIMACS CNF, including the "p cnf" header.
func (s *Solver) PrintFormula(w io.Writer) {
	fmt.Fprintf(w, "p cnf %d %d\n", s.NumVariables(), s.NumClauses()+s.NumUnits())
	s.PrintUnits(w)
	for i := 0; i < s.NumClauses(); i++ {
		s.PrintClause(w, i)
	}
}
