package builtins

import (
	"metajs/pkg/vm"
)

// BuiltinInitializer is implemented by each builtin module
type BuiltinInitializer interface {
	// Name returns the module name (e.g., "Object", "String")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// InitRuntime populates the realm's prototypes and defines globals
	InitRuntime(ctx *RuntimeContext) error
}

// RuntimeContext provides everything needed for runtime initialization
type RuntimeContext struct {
	Realm *vm.Realm

	// Define a global value
	DefineGlobal func(name string, value vm.Value) error
}

// Priority constants for initialization order
const (
	PriorityObject   = 0  // Object must be first (base prototype)
	PriorityFunction = 1  // Function second (inherits from Object)
	PriorityString   = 10 // String primitives
	PriorityNumber   = 11 // Number primitives
	PriorityBoolean  = 12 // Boolean primitives
)
