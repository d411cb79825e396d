package sim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ParseParams reads the whitespace-separated parameter format
//
//	<mean interarrival> <mean service> <num delays required>
//
// and applies the three values on top of base. Extra tokens are rejected.
func ParseParams(r io.Reader, base SimConfig) (SimConfig, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return base, fmt.Errorf("%w: reading params: %v", ErrInvalidConfig, err)
	}
	if len(tokens) != 3 {
		return base, fmt.Errorf("%w: params must hold exactly 3 values (mean interarrival, mean service, num delays), got %d", ErrInvalidConfig, len(tokens))
	}

	cfg := base
	var err error
	if cfg.MeanInterArrival, err = strconv.ParseFloat(tokens[0], 64); err != nil {
		return base, fmt.Errorf("%w: mean interarrival %q: %v", ErrInvalidConfig, tokens[0], err)
	}
	if cfg.MeanService, err = strconv.ParseFloat(tokens[1], 64); err != nil {
		return base, fmt.Errorf("%w: mean service %q: %v", ErrInvalidConfig, tokens[1], err)
	}
	if cfg.NumDelaysRequired, err = strconv.Atoi(tokens[2]); err != nil {
		return base, fmt.Errorf("%w: num delays %q: %v", ErrInvalidConfig, tokens[2], err)
	}
	return cfg, nil
}

// LoadParamsFile opens path and parses it with ParseParams.
func LoadParamsFile(path string, base SimConfig) (SimConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("%w: opening params: %v", ErrInvalidConfig, err)
	}
	defer f.Close()
	return ParseParams(f, base)
}
