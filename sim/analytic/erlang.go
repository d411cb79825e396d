// Package analytic provides closed-form queueing results used to
// cross-check simulation output: the Erlang loss and delay formulas and
// the steady-state M/M/1 measures.
package analytic

import "fmt"

// Factorial returns n! as a float64. n must be non-negative.
func Factorial(n int) float64 {
	if n < 0 {
		panic(fmt.Sprintf("Factorial: negative argument %d", n))
	}
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

// TrafficIntensity returns the offered load a = arrivalRate / serviceRate in Erlangs.
func TrafficIntensity(arrivalRate, serviceRate float64) float64 {
	return arrivalRate / serviceRate
}

// ErlangB returns the blocking probability of an m-server loss system:
//
//	(a^m / m!) / sum_{i=0..m} a^i / i!
//
// It is evaluated with the recurrence B(0) = 1, B(k) = a*B(k-1) / (k + a*B(k-1)),
// which stays finite for any number of servers.
func ErlangB(servers int, arrivalRate, serviceRate float64) float64 {
	checkArgs(servers, arrivalRate, serviceRate)
	a := TrafficIntensity(arrivalRate, serviceRate)

	b := 1.0
	for k := 1; k <= servers; k++ {
		b = a * b / (float64(k) + a*b)
	}
	return b
}

// ErlangC returns the probability that an arriving customer must wait in an
// m-server system with an unbounded queue:
//
//	top / (sum_{i=0..m-1} a^i / i! + top),  top = a^m / m! * m / (m - a)
//
// computed from Erlang B as m*B / (m - a*(1-B)).
// A saturated system (a >= m) always makes customers wait, so the result is 1.
func ErlangC(servers int, arrivalRate, serviceRate float64) float64 {
	checkArgs(servers, arrivalRate, serviceRate)
	a := TrafficIntensity(arrivalRate, serviceRate)
	m := float64(servers)
	if a >= m {
		return 1
	}

	b := ErlangB(servers, arrivalRate, serviceRate)
	return m * b / (m - a*(1-b))
}

func checkArgs(servers int, arrivalRate, serviceRate float64) {
	if servers < 1 {
		panic(fmt.Sprintf("servers must be at least 1, got %d", servers))
	}
	if !(arrivalRate >= 0) || !(serviceRate > 0) {
		panic(fmt.Sprintf("rates must satisfy arrival >= 0 and service > 0, got %g and %g", arrivalRate, serviceRate))
	}
}
