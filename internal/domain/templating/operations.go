package templating

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

var (
	rangePattern  = regexp.MustCompile(`^(-?\d+)(?:\s+|\s*-\s*)(-?\d+)$`)
	singlePattern = regexp.MustCompile(`^-?\d+$`)
)

// RandInt renders a random integer from an inclusive range: "%rand 1-5%".
type RandInt struct{ rng *rand.Rand }

func (RandInt) Name() string { return "rand" }

func (RandInt) Test(operation string) bool {
	return strings.EqualFold(operation, "rand") || strings.EqualFold(operation, "randint")
}

func (o RandInt) Invoke(arguments string) string {
	lo, hi := parseRange(arguments)
	return strconv.Itoa(randomInRange(o.rng, lo, hi))
}

// RandSign renders "+" or "-" at random, or a random integer from a range
// with an explicit sign: "%randsign 1-3%" -> "+2".
type RandSign struct{ rng *rand.Rand }

func (RandSign) Name() string { return "randsign" }

func (RandSign) Test(operation string) bool {
	return strings.EqualFold(operation, "randsign")
}

func (o RandSign) Invoke(arguments string) string {
	if strings.TrimSpace(arguments) == "" {
		if o.rng.IntN(2) == 0 {
			return "+"
		}
		return "-"
	}
	lo, hi := parseRange(arguments)
	n := randomInRange(o.rng, lo, hi)
	if n < 0 {
		return strconv.Itoa(n)
	}
	return "+" + strconv.Itoa(n)
}

// RandRoman renders a random integer from a range as a roman numeral:
// "%randroman 1-4%" -> "III".
type RandRoman struct{ rng *rand.Rand }

func (RandRoman) Name() string { return "randroman" }

func (RandRoman) Test(operation string) bool {
	return strings.EqualFold(operation, "randroman")
}

func (o RandRoman) Invoke(arguments string) string {
	lo, hi := parseRange(arguments)
	return ToRoman(randomInRange(o.rng, lo, hi))
}

// parseRange reads "a b", "a-b" or "a - b"; a single number is a range of
// one. Anything else is [0, 0].
func parseRange(arguments string) (int, int) {
	s := strings.TrimSpace(arguments)
	if m := rangePattern.FindStringSubmatch(s); m != nil {
		return atoi(m[1]), atoi(m[2])
	}
	if singlePattern.MatchString(s) {
		n := atoi(s)
		return n, n
	}
	return 0, 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func randomInRange(rng *rand.Rand, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	// span is computed unsigned so ranges wider than MaxInt cannot overflow
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return int(rng.Uint64())
	}
	return lo + int(rng.Uint64N(span+1))
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman renders n as a roman numeral. Values outside 1..3999 have no
// numeral and are rendered in decimal.
func ToRoman(n int) string {
	if n < 1 || n > 3999 {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}
