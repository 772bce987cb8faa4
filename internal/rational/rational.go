// Package rational finds the best rational approximation of a fraction with
// bounded numerator and denominator, walking the continued-fraction
// convergents of the input and taking a final semiconvergent step when a
// bound is hit. The MAI clock divider uses it to fit an arbitrary
// sample-rate ratio into the hardware's N/M field widths.
package rational

// BestApproximation reduces num/den to the closest fraction n/d with
// n <= maxNum and d <= maxDen.
//
// If num/den is representable within the bounds the result is exact. A zero
// numerator yields 0/1; a ratio too large to represent saturates at the
// bound.
func BestApproximation(num, den, maxNum, maxDen uint64) (n, d uint64) {
	// n0/d0 and n1/d1 are the previous two convergents.
	var n0, d1 uint64 = 0, 0
	var n1, d0 uint64 = 1, 1

	for den != 0 {
		a := num / den
		// num becomes the old denominator, den the remainder. Both are
		// needed below for the midpoint tie-break.
		num, den = den, num%den

		n2 := n0 + a*n1
		d2 := d0 + a*d1
		if n2 > maxNum || d2 > maxDen {
			// The next convergent overflows a bound: take the largest
			// semiconvergent step t that still fits.
			t := ^uint64(0)
			if n1 != 0 {
				t = (maxNum - n0) / n1
			}
			if d1 != 0 {
				if s := (maxDen - d0) / d1; s < t {
					t = s
				}
			}

			// The semiconvergent wins over the previous convergent when
			// it is past the midpoint of the step, or exactly at the
			// midpoint with the tie broken towards the even convergent.
			// With no previous convergent (first iteration) it always
			// wins.
			if d1 == 0 || 2*t > a || (2*t == a && d0*num > d1*den) {
				return n0 + t*n1, d0 + t*d1
			}
			return n1, d1
		}
		n0, n1 = n1, n2
		d0, d1 = d1, d2
	}
	return n1, d1
}
