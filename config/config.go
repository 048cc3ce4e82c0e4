// Package config reads the settings of the primes commands from cobra flags and
// PRIMES_ prefixed environment variables using viper.
package config

import (
	"strconv"
	"strings"

	"github.com/gostdlib/primes/harness"
	"github.com/gostdlib/primes/prime"
	"github.com/gostdlib/primes/report"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, --log-level is PRIMES_LOG_LEVEL.
const EnvPrefix = "PRIMES"

// Flag names shared by the commands.
const (
	FlagLimit       = "limit"
	FlagThreads     = "threads"
	FlagCollect     = "collect"
	FlagInteractive = "interactive"
	FlagIterations  = "iterations"
	FlagBackend     = "backend"
	FlagVerify      = "verify"
	FlagFormat      = "format"
	FlagLogLevel    = "log-level"
)

const (
	// DefaultLimit is the limit a count uses when it is not prompted for or set.
	DefaultLimit int64 = 10_000_000
	// DefaultThreads is the thread count a count uses when it is not prompted for or set.
	DefaultThreads int64 = 1
)

// New returns a viper.Viper bound to "flags" and the environment. A flag that was
// set on the command line wins over the environment, which wins over the flag default.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	return v, nil
}

// Count is the configuration of a single prime count.
type Count struct {
	// Limit is the upper bound, HasLimit is false if it must be prompted for.
	Limit    int64
	HasLimit bool
	// Threads is the number of workers, HasThreads is false if it must be prompted for.
	Threads    int64
	HasThreads bool
	// Collect is how workers collect primes.
	Collect prime.Collect
}

// LoadCount reads a Count from v. Values that are neither set by a flag nor by the
// environment are left to be prompted for when "interactive" is set and
// otherwise take DefaultLimit and DefaultThreads.
func LoadCount(v *viper.Viper) (Count, error) {
	c := Count{Limit: DefaultLimit, Threads: DefaultThreads}
	interactive, err := ParseBool(FlagInteractive, v.GetString(FlagInteractive))
	if err != nil {
		return Count{}, err
	}

	if v.IsSet(FlagLimit) || !interactive {
		c.Limit, err = ParseInt(FlagLimit, v.GetString(FlagLimit))
		if err != nil {
			return Count{}, err
		}
		c.HasLimit = true
	}
	if v.IsSet(FlagThreads) || !interactive {
		c.Threads, err = ParseInt(FlagThreads, v.GetString(FlagThreads))
		if err != nil {
			return Count{}, err
		}
		c.HasThreads = true
	}

	c.Collect, err = prime.ParseCollect(v.GetString(FlagCollect))
	if err != nil {
		return Count{}, err
	}
	return c, nil
}

// LoadBench reads the harness configuration and the report format from v.
func LoadBench(v *viper.Viper) (harness.Config, report.Format, error) {
	cfg := harness.DefaultConfig()

	var err error
	if cfg.Limit, err = ParseInt(FlagLimit, v.GetString(FlagLimit)); err != nil {
		return harness.Config{}, "", err
	}
	iterations, err := ParseInt(FlagIterations, v.GetString(FlagIterations))
	if err != nil {
		return harness.Config{}, "", err
	}
	cfg.Iterations = int(iterations)
	if cfg.ThreadCounts, err = ParseInts(FlagThreads, v.GetString(FlagThreads)); err != nil {
		return harness.Config{}, "", err
	}
	if cfg.Backend, err = harness.ParseBackend(v.GetString(FlagBackend)); err != nil {
		return harness.Config{}, "", err
	}
	if cfg.Collect, err = prime.ParseCollect(v.GetString(FlagCollect)); err != nil {
		return harness.Config{}, "", err
	}
	if cfg.Verify, err = ParseBool(FlagVerify, v.GetString(FlagVerify)); err != nil {
		return harness.Config{}, "", err
	}

	f := report.Format(v.GetString(FlagFormat))
	switch f {
	case report.FormatText, report.FormatJSON, report.FormatCSV:
	default:
		return harness.Config{}, "", prime.Errorf(prime.TypeInvalidInput, "format must be text, json or csv, got %q", f)
	}

	if err := cfg.Validate(); err != nil {
		return harness.Config{}, "", err
	}
	return cfg, f, nil
}

// ParseInt parses a base 10 integer named "name". Missing or non-numeric values
// return an InvalidInput error.
func ParseInt(name, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, prime.Errorf(prime.TypeInvalidInput, "%s is required", name)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return 0, prime.Errorf(prime.TypeOutOfRange, "%s %q does not fit in an int64", name, s)
		}
		return 0, prime.Errorf(prime.TypeInvalidInput, "%s must be an integer, got %q", name, s)
	}
	return i, nil
}

// ParseInts parses a comma separated list of integers named "name".
func ParseInts(name, s string) ([]int64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, prime.Errorf(prime.TypeInvalidInput, "%s is required", name)
	}

	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		i, err := ParseInt(name, p)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// ParseBool parses a boolean named "name" the way strconv.ParseBool does. Anything
// else returns an InvalidInput error.
func ParseBool(name, s string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, prime.Errorf(prime.TypeInvalidInput, "%s must be true or false, got %q", name, s)
	}
	return b, nil
}
