package sim

import (
	"fmt"
	"hash/fnv"
	"math"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
//
// Key 0 selects the classic Simlib seed table, so runs with key 0 reproduce
// the textbook lcgrand sequences.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Generator constants ===

const (
	// NumStreams is the number of independent generator streams.
	// Valid stream indices are 1..NumStreams.
	NumStreams = 100

	lcgModulus = 2147483647
	lcgMult1   = 24112
	lcgMult2   = 26143
)

// Default stream assignments. Arrivals and services use separate streams so
// the two processes are not correlated.
const (
	StreamArrival = 1
	StreamService = 2
)

// StreamName returns the derivation label for stream i.
func StreamName(i int) string {
	return fmt.Sprintf("stream_%d", i)
}

// simlibSeeds is the Simlib seed table. Index 0 is unused.
var simlibSeeds = [NumStreams + 1]int64{
	1,
	1973272912, 281629770, 20006270, 1280689831, 2096730329, 1933576050,
	913566091, 246780520, 1363774876, 604901985, 1511192140, 1259851944,
	824064364, 150493284, 242708531, 75253171, 1964472944, 1202299975,
	233217322, 1911216000, 726370533, 403498145, 993232223, 1103205531,
	762430696, 1922803170, 1385516923, 76271663, 413682397, 726466604,
	336157058, 1432650381, 1120463904, 595778810, 877722890, 1046574445,
	68911991, 2088367019, 748545416, 622401386, 2122378830, 640690903,
	1774806513, 2132545692, 2079249579, 78130110, 852776735, 1187867272,
	1351423507, 1645973084, 1997049139, 922510944, 2045512870, 898585771,
	243649545, 1004818771, 773686062, 403188473, 372279877, 1901633463,
	498067494, 2087759558, 493157915, 597104727, 1530940798, 1814496276,
	536444882, 1663153658, 855503735, 67784357, 1432404475, 619691088,
	119025595, 880802310, 176192644, 1116780070, 277854671, 1366580350,
	1142483975, 2026948561, 1053920743, 786262391, 1792203830, 1494667770,
	1923011392, 1433700034, 1244184613, 1147297105, 539712780, 1545929719,
	190641742, 1645390429, 264907697, 620389253, 1502074852, 927711160,
	364849192, 2049576050, 638580085, 547070247,
}

// === LCG ===

// LCG is a multi-stream prime modulus multiplicative linear congruential
// generator (modulus 2^31-1, combined multipliers 24112 and 26143).
// Each instance owns a private copy of its seed table, so independent
// simulations never share generator state.
//
// Seed derivation:
//   - key 0: the Simlib default table
//   - any other key: stream i starts at (key XOR fnv1a64("stream_<i>")) folded into [1, 2^31-2]
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type LCG struct {
	key  SimulationKey
	zrng [NumStreams + 1]int64
}

// NewLCG creates a generator whose streams are seeded from key.
func NewLCG(key SimulationKey) *LCG {
	g := &LCG{key: key, zrng: simlibSeeds}
	if key != 0 {
		for i := 1; i <= NumStreams; i++ {
			g.zrng[i] = deriveStreamSeed(key, i)
		}
	}
	return g
}

// Key returns the SimulationKey used to create this generator.
func (g *LCG) Key() SimulationKey {
	return g.key
}

// Uniform returns the next U(0,1) variate from the given stream.
// The result is never exactly 0 or 1.
func (g *LCG) Uniform(stream int) float64 {
	checkStream(stream)
	zi := g.zrng[stream]
	zi = lcgStep(zi, lcgMult1)
	zi = lcgStep(zi, lcgMult2)
	g.zrng[stream] = zi
	return float64(zi>>7|1) / 16777216.0
}

// Exponential returns an exponential variate with the given mean drawn from stream.
func (g *LCG) Exponential(mean float64, stream int) float64 {
	return -mean * math.Log(g.Uniform(stream))
}

// SetSeed sets the current state of a stream. z must lie in [1, 2^31-2].
func (g *LCG) SetSeed(stream int, z int64) {
	checkStream(stream)
	if z < 1 || z >= lcgModulus {
		panic(fmt.Sprintf("SetSeed: seed %d out of range [1, %d]", z, lcgModulus-1))
	}
	g.zrng[stream] = z
}

// Seed returns the current state of a stream.
func (g *LCG) Seed(stream int) int64 {
	checkStream(stream)
	return g.zrng[stream]
}

// lcgStep computes zi*mult mod (2^31-1) without overflowing 32-bit
// intermediate products (Marse and Roberts).
func lcgStep(zi, mult int64) int64 {
	lowprd := (zi & 65535) * mult
	hi31 := (zi>>16)*mult + (lowprd >> 16)
	zi = ((lowprd & 65535) - lcgModulus) + ((hi31 & 32767) << 16) + (hi31 >> 15)
	if zi < 0 {
		zi += lcgModulus
	}
	return zi
}

func checkStream(stream int) {
	if stream < 1 || stream > NumStreams {
		panic(fmt.Sprintf("stream index %d out of range [1, %d]", stream, NumStreams))
	}
}

// deriveStreamSeed maps (key, stream) onto a valid generator state.
func deriveStreamSeed(key SimulationKey, stream int) int64 {
	z := (int64(key) ^ fnv1a64(StreamName(stream))) % (lcgModulus - 1)
	if z < 0 {
		z += lcgModulus - 1
	}
	return z + 1
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
