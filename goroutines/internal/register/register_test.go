package register

import (
	"testing"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		desc string
		name string
		want string
	}{
		{desc: "base name", name: "primes", want: "primes-1"},
		{desc: "first suffix", name: "primes-1", want: "primes-2"},
		{desc: "double digits", name: "primes-19", want: "primes-20"},
	}

	for _, test := range tests {
		if got := NewName(test.name); got != test.want {
			t.Errorf("TestNewName(%s): got %q, want %q", test.desc, got, test.want)
		}
	}
}

func TestValidateBaseName(t *testing.T) {
	tests := []struct {
		name string
		err  bool
	}{
		{name: "", err: false},
		{name: "primes", err: false},
		{name: "primes1", err: true},
		{name: "prime-pool", err: true},
		{name: "prime pool", err: true},
	}

	for _, test := range tests {
		err := ValidateBaseName(test.name)
		if (err != nil) != test.err {
			t.Errorf("TestValidateBaseName(%q): got err == %v, want err != nil == %v", test.name, err, test.err)
		}
	}
}
