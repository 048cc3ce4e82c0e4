package config

import (
	"testing"

	"github.com/gostdlib/primes/harness"
	"github.com/gostdlib/primes/prime"
	"github.com/gostdlib/primes/report"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func countFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("count", pflag.ContinueOnError)
	fs.Int64(FlagLimit, DefaultLimit, "")
	fs.Int64(FlagThreads, DefaultThreads, "")
	fs.String(FlagCollect, "local", "")
	fs.Bool(FlagInteractive, true, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func benchFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
	fs.Int64(FlagLimit, harness.DefaultLimit, "")
	fs.Int(FlagIterations, harness.DefaultIterations, "")
	fs.String(FlagThreads, "1,2,4,8,16,32,64,128,256,512,1024", "")
	fs.String(FlagBackend, "goroutine", "")
	fs.String(FlagCollect, "local", "")
	fs.Bool(FlagVerify, true, "")
	fs.String(FlagFormat, "text", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadCount(t *testing.T) {
	tests := []struct {
		desc string
		args []string
		env  map[string]string
		want Count
	}{
		{
			desc: "nothing set prompts for both",
			want: Count{Limit: DefaultLimit, Threads: DefaultThreads},
		},
		{
			desc: "flags",
			args: []string{"--limit", "100", "--threads", "4", "--collect", "shared"},
			want: Count{Limit: 100, HasLimit: true, Threads: 4, HasThreads: true, Collect: prime.CollectShared},
		},
		{
			desc: "env",
			env:  map[string]string{"PRIMES_THREADS": "8"},
			want: Count{Limit: DefaultLimit, Threads: 8, HasThreads: true},
		},
		{
			desc: "flag wins over env",
			args: []string{"--threads", "2"},
			env:  map[string]string{"PRIMES_THREADS": "8"},
			want: Count{Limit: DefaultLimit, Threads: 2, HasThreads: true},
		},
		{
			desc: "non interactive uses defaults",
			args: []string{"--interactive=false"},
			want: Count{Limit: DefaultLimit, HasLimit: true, Threads: DefaultThreads, HasThreads: true},
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			for k, v := range test.env {
				t.Setenv(k, v)
			}
			v, err := New(countFlags(t, test.args...))
			require.NoError(t, err)

			got, err := LoadCount(v)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestLoadCountBadEnv(t *testing.T) {
	t.Setenv("PRIMES_LIMIT", "lots")

	v, err := New(countFlags(t))
	require.NoError(t, err)

	_, err = LoadCount(v)
	require.True(t, prime.IsInvalidInput(err), "got %v", err)
}

func TestLoadBench(t *testing.T) {
	v, err := New(benchFlags(t))
	require.NoError(t, err)

	cfg, f, err := LoadBench(v)
	require.NoError(t, err)
	require.Equal(t, harness.DefaultConfig(), cfg)
	require.Equal(t, report.FormatText, f)

	t.Setenv("PRIMES_BACKEND", "tunny")
	v, err = New(benchFlags(t, "--threads", "3, 5", "--iterations", "2", "--verify=false", "--format", "json"))
	require.NoError(t, err)

	cfg, f, err = LoadBench(v)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5}, cfg.ThreadCounts)
	require.Equal(t, 2, cfg.Iterations)
	require.Equal(t, harness.BackendTunny, cfg.Backend)
	require.False(t, cfg.Verify)
	require.Equal(t, report.FormatJSON, f)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		is   func(error) bool
	}{
		{in: "42", want: 42},
		{in: " 7 ", want: 7},
		{in: "-3", want: -3},
		{in: "", is: prime.IsInvalidInput},
		{in: "4.5", is: prime.IsInvalidInput},
		{in: "abc", is: prime.IsInvalidInput},
		{in: "99999999999999999999", is: prime.IsOutOfRange},
	}

	for _, test := range tests {
		got, err := ParseInt("limit", test.in)
		if test.is != nil {
			require.True(t, test.is(err), "ParseInt(%q): got %v", test.in, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, test.want, got)
	}
}

func TestParseInts(t *testing.T) {
	got, err := ParseInts("threads", "[1,2, 4]")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 4}, got)

	_, err = ParseInts("threads", "")
	require.True(t, prime.IsInvalidInput(err))

	_, err = ParseInts("threads", "1,,2")
	require.True(t, prime.IsInvalidInput(err))
}

func TestLoadBenchBadEnv(t *testing.T) {
	tests := []struct {
		desc string
		key  string
		val  string
	}{
		{desc: "verify", key: "PRIMES_VERIFY", val: "maybe"},
		{desc: "iterations", key: "PRIMES_ITERATIONS", val: "six"},
		{desc: "fractional iterations", key: "PRIMES_ITERATIONS", val: "1.5"},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			t.Setenv(test.key, test.val)

			v, err := New(benchFlags(t))
			require.NoError(t, err)

			_, _, err = LoadBench(v)
			require.True(t, prime.IsInvalidInput(err), "got %v", err)
		})
	}
}

func TestLoadCountBadInteractive(t *testing.T) {
	t.Setenv("PRIMES_INTERACTIVE", "sometimes")

	v, err := New(countFlags(t))
	require.NoError(t, err)

	_, err = LoadCount(v)
	require.True(t, prime.IsInvalidInput(err), "got %v", err)
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "1", "T", " TRUE "} {
		got, err := ParseBool("verify", in)
		require.NoError(t, err, in)
		require.True(t, got, in)
	}
	for _, in := range []string{"false", "0", "F"} {
		got, err := ParseBool("verify", in)
		require.NoError(t, err, in)
		require.False(t, got, in)
	}

	_, err := ParseBool("verify", "maybe")
	require.True(t, prime.IsInvalidInput(err))
}
