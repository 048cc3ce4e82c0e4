// Package register has a registration method that a goroutine.Pool implementation can use
// to register the pool under a unique name. Names show up in span events so that
// concurrent benchmark sweeps can be told apart.
package register

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gostdlib/primes/goroutines"
)

var registry = map[string]goroutines.Pool{}
var mu = sync.RWMutex{}

// Register registers a name for a pool in the registry. Pools with an empty
// name are not registered.
func Register(pool goroutines.Pool) error {
	mu.Lock()
	defer mu.Unlock()

	name := pool.GetName()
	if name == "" {
		return nil
	}

	if _, ok := registry[name]; ok {
		return fmt.Errorf("name already taken")
	}

	registry[name] = pool
	return nil
}

// Unregister unregisters the pool from the registry.
func Unregister(pool goroutines.Pool) {
	mu.Lock()
	defer mu.Unlock()

	name := pool.GetName()
	if registry[name] == pool {
		delete(registry, name)
	}
}

var numOrHyphen = regexp.MustCompile(`[0-9-\s]`)

// ValidateBaseName returns an error if the name contains numbers, spaces or hyphens.
func ValidateBaseName(name string) error {
	if numOrHyphen.MatchString(name) {
		return fmt.Errorf("name %q cannot contain numbers, spaces or hyphens", name)
	}
	return nil
}

// NewName takes the name of the pool and returns the next candidate name, "name-1"
// for a base name and "name-(n+1)" for a name that already has a suffix.
func NewName(name string) string {
	i := strings.LastIndex(name, "-")
	if i < 0 {
		return name + "-1"
	}

	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		panic(fmt.Sprintf("register is broken, name %s is invalid", name))
	}
	return fmt.Sprintf("%s-%d", name[:i], n+1)
}
