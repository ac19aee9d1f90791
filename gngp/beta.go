package gngp

import "math"

// betaTable precomputes β^n for n=1..λ and β^(n·λ) for λ-multiples up to a
// bounded cache, so that a node's lazily-decayed error can be looked up
// rather than recomputed with math.Pow on every read.
type betaTable struct {
	beta    float64
	lnBeta  float64 // math.Log(beta), always < 0 for beta in (0,1)
	lambda  int
	perStep []float64 // perStep[n] = beta^n, n=0..lambda
	perCyc  []float64 // perCyc[k]  = beta^(k*lambda), k=0..cap
}

const betaTableCycleCap = 1000

func newBetaTable(beta float64, lambda int) *betaTable {
	t := &betaTable{beta: beta, lnBeta: math.Log(beta), lambda: lambda}

	t.perStep = make([]float64, lambda+1)
	t.perStep[0] = 1
	for n := 1; n <= lambda; n++ {
		t.perStep[n] = t.perStep[n-1] * beta
	}

	betaLambda := math.Pow(beta, float64(lambda))
	t.perCyc = make([]float64, betaTableCycleCap+1)
	t.perCyc[0] = 1
	for k := 1; k <= betaTableCycleCap; k++ {
		t.perCyc[k] = t.perCyc[k-1] * betaLambda
	}

	return t
}

// pow returns β^n for any n ≥ 0, decomposing n = k*λ + r (0 ≤ r < λ) and
// combining a table hit for the λ-multiple part with a table hit for the
// remainder; falls back to math.Pow only once k exceeds the cache.
func (t *betaTable) pow(n uint64) float64 {
	if t.lambda <= 0 {
		return math.Pow(t.beta, float64(n))
	}
	k := n / uint64(t.lambda)
	r := n % uint64(t.lambda)

	if k > uint64(betaTableCycleCap) {
		return math.Pow(t.beta, float64(n))
	}

	return t.perCyc[k] * t.perStep[r]
}

// decayedAt returns rawErr's decayed value after stepsElapsed further steps;
// used whenever an absolute (not merely comparative) error magnitude is
// needed, e.g. averaging err(q) and err(f) at a growth step.
func (t *betaTable) decayedAt(rawErr float64, stepsElapsed uint64) float64 {
	return rawErr * t.pow(stepsElapsed)
}

// comparableKey returns a value usable as a pairing-heap priority for a node
// whose error was last fixed to rawErr at step errCycle, valid for ordering
// against any other node's comparableKey regardless of when each was last
// touched.
//
// Two nodes' true decayed values at any common "now" are
// rawErr*β^(now-errCycle); their ratio is independent of now (the β^now
// factor cancels), so ln(rawErr) - errCycle*lnBeta is a now-independent
// ordering key. Working in log space keeps this numerically stable across
// long runs, where β^(-errCycle) itself would overflow float64 for errCycle
// in the tens of thousands.
func (t *betaTable) comparableKey(rawErr float64, errCycle uint64) float64 {
	if rawErr <= 0 {
		return math.Inf(-1)
	}

	return math.Log(rawErr) - float64(errCycle)*t.lnBeta
}
