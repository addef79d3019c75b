// sim/halfhalf.go
//
// The Half-Half interface mapper (§4.2): a bidirectional, lossy mapping
// between the BDR (α, Δ) abstraction and the PRM (Q, P) abstraction.
//
// The two directions are NOT inverses of each other in general — see
// SPEC_FULL.md's Open Question resolution #1 and the round-trip test in
// halfhalf_test.go, which only asserts the (α,Δ)->(Q,P)->(α,Δ) direction
// for α in (0,1).
package sim

import "fmt"

// HalfHalfBDRToPRM maps a BDR interface to its Half-Half equivalent PRM
// interface (§4.2):
//
//	P = Δ / (1 - α)
//	Q = α * P / 2
//
// alpha must lie in (0,1); the interface is otherwise undefined (§4.2
// contract, §7 domain-range error).
func HalfHalfBDRToPRM(alpha, delta float64) (q, p float64, err error) {
	if !(alpha > 0 && alpha < 1) {
		return 0, 0, fmt.Errorf("half-half mapping undefined for alpha=%g (must be in (0,1))", alpha)
	}
	if delta < 0 {
		return 0, 0, fmt.Errorf("half-half mapping undefined for delta=%g (must be >= 0)", delta)
	}
	p = delta / (1 - alpha)
	q = alpha * p / 2
	return q, p, nil
}

// HalfHalfPRMToBDR maps a PRM interface to its equivalent BDR interface
// (§4.2):
//
//	α = Q / P
//	Δ = 2 * (P - Q)
//
// q and p must both be positive with q <= p (§3 invariant).
func HalfHalfPRMToBDR(q, p float64) (alpha, delta float64, err error) {
	if p <= 0 {
		return 0, 0, fmt.Errorf("half-half mapping undefined for P=%g (must be > 0)", p)
	}
	if q <= 0 || q > p+epsilon {
		return 0, 0, fmt.Errorf("half-half mapping undefined for Q=%g, P=%g (need 0 < Q <= P)", q, p)
	}
	alpha = q / p
	delta = 2 * (p - q)
	return alpha, delta, nil
}
