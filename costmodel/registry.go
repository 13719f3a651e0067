// Package costmodel supplies concrete plan.CostModel implementations
// and a name-based registry so a search.Driver run can be pointed at
// whichever cost model a caller has linked in, the same way
// database/sql resolves a driver name to an implementation without the
// caller importing it directly.
package costmodel

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/kvschema/advisor/plan"
)

var (
	mu       sync.Mutex
	registry = map[string]plan.CostModel{}
)

// Register makes a CostModel available under name. It panics on a
// duplicate name, mirroring database/sql.Register — a doubly
// registered cost model is a programming error caught at init time,
// not a runtime condition to recover from.
func Register(name string, cm plan.CostModel) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; ok {
		panic(errors.Newf("costmodel: Register called twice for %q", name))
	}
	registry[name] = cm
}

// Lookup returns the CostModel registered under name.
func Lookup(name string) (plan.CostModel, error) {
	mu.Lock()
	defer mu.Unlock()
	cm, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q", name)
	}
	return cm, nil
}

func init() {
	Register("default", Default{})
}
