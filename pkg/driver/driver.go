package driver

import (
	"fmt"

	"github.com/tliron/commonlog"

	"metajs/pkg/builtins"
	"metajs/pkg/vm"
)

var log = commonlog.GetLogger("metajs.driver")

// Session owns a realm with the standard builtins installed. Scenarios run
// in the same session share that realm, so objects created by one run are
// not visible to the next but prototype mutations are.
// A Session is not safe for concurrent use; create one per goroutine.
type Session struct {
	realm  *vm.Realm
	config *Config
}

// NewSession creates a session from cfg (nil selects DefaultConfig).
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	realm := vm.NewRealm(cfg.RealmOptions())
	if err := builtins.Initialize(realm); err != nil {
		return nil, fmt.Errorf("builtin initialization failed: %w", err)
	}
	log.Debugf("session created on realm %d", realm.ID())
	return &Session{realm: realm, config: cfg}, nil
}

// Realm returns the session's realm.
func (s *Session) Realm() *vm.Realm {
	return s.realm
}

// Config returns the configuration the session was created with.
func (s *Session) Config() *Config {
	return s.config
}

// prototypeByName resolves the builtin prototype names scenarios may use.
func (s *Session) prototypeByName(name string) (*vm.Object, bool) {
	switch name {
	case "Object":
		return s.realm.ObjectPrototype, true
	case "Function":
		return s.realm.FunctionPrototype, true
	case "Boolean":
		return s.realm.BooleanPrototype, true
	case "Number":
		return s.realm.NumberPrototype, true
	case "String":
		return s.realm.StringPrototype, true
	}
	return nil, false
}
