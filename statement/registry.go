package statement

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrUnknownParser is returned by LookupParser for a name no
// RegisterParser call has claimed.
var ErrUnknownParser = errors.New("statement: unknown parser")

var (
	mu       sync.Mutex
	registry = map[string]Parser{}
)

// RegisterParser makes a Parser available under name, the same
// name-based indirection costmodel.Register and ilp.Register use for
// their own plugin contracts.
func RegisterParser(name string, p Parser) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; ok {
		panic(errors.Newf("statement: RegisterParser called twice for %q", name))
	}
	registry[name] = p
}

// LookupParser returns the Parser registered under name.
func LookupParser(name string) (Parser, error) {
	mu.Lock()
	defer mu.Unlock()
	p, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownParser, "%q", name)
	}
	return p, nil
}
