package builtins

import (
	"fmt"
	"sort"

	"github.com/tliron/commonlog"

	"metajs/pkg/vm"
)

var log = commonlog.GetLogger("metajs.builtins")

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []BuiltinInitializer {
	initializers := []BuiltinInitializer{
		&ObjectInitializer{},
		&FunctionInitializer{},
		&StringInitializer{},
		&NumberInitializer{},
		&BooleanInitializer{},
	}

	// Sort by priority (lower numbers first)
	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}

// Initialize installs the standard builtins into realm in two phases:
// every initializer runs first, then the boxing constructors are wired so
// ToObject never resolves a constructor lazily.
func Initialize(realm *vm.Realm) error {
	return InitializeWith(realm, GetStandardInitializers())
}

// InitializeWith runs the given initializers (in the order given) and then
// wires the boxing constructors they defined.
func InitializeWith(realm *vm.Realm, initializers []BuiltinInitializer) error {
	ctx := &RuntimeContext{
		Realm: realm,
		DefineGlobal: func(name string, value vm.Value) error {
			if realm.Globals.HasOwn(name) {
				return fmt.Errorf("global %q already defined", name)
			}
			realm.DefineGlobal(name, value)
			return nil
		},
	}

	for _, init := range initializers {
		log.Debugf("initializing %s (priority %d)", init.Name(), init.Priority())
		if err := init.InitRuntime(ctx); err != nil {
			return fmt.Errorf("builtin %s: %w", init.Name(), err)
		}
	}

	return realm.InstallBoxing(vm.Boxing{
		Boolean: realm.Global("Boolean"),
		Number:  realm.Global("Number"),
		String:  realm.Global("String"),
	})
}

// defineMethod installs a native method on proto as a plain data property.
func defineMethod(realm *vm.Realm, proto *vm.Object, name string, fn vm.NativeFunc) {
	proto.SetOwn(name, realm.NewFunction(name, fn))
}

// defineConstructor links ctor and proto both ways.
func defineConstructor(realm *vm.Realm, name string, proto *vm.Object, fn vm.NativeFunc) vm.Value {
	ctor := realm.NewFunction(name, fn)
	ctor.AsObject().SetOwn("prototype", vm.ObjectValue(proto))
	proto.SetOwn("constructor", ctor)
	return ctor
}

// primitiveStringConverter renders wrapper objects through their cached
// primitive.
func primitiveStringConverter(realm *vm.Realm) vm.StringConverter {
	return func(self vm.Value) (string, error) {
		if p, ok := self.AsObject().PrimitiveValue(); ok {
			return realm.ToString(p)
		}
		return realm.ObjectToString(self.AsObject()), nil
	}
}

// thisPrimitive extracts a primitive of type typ from a receiver that is
// either that primitive or a wrapper object around it.
func thisPrimitive(realm *vm.Realm, this vm.Value, typ vm.ValueType, method string) (vm.Value, error) {
	if this.Type() == typ {
		return this, nil
	}
	if this.IsObject() {
		if p, ok := this.AsObject().PrimitiveValue(); ok && p.Type() == typ {
			return p, nil
		}
	}
	return vm.Undefined, realm.TypeErrorf("%s requires that 'this' be a %s", method, typ)
}
