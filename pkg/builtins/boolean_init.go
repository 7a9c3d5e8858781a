package builtins

import (
	"metajs/pkg/vm"
)

type BooleanInitializer struct{}

func (b *BooleanInitializer) Name() string {
	return "Boolean"
}

func (b *BooleanInitializer) Priority() int {
	return PriorityBoolean
}

func (b *BooleanInitializer) InitRuntime(ctx *RuntimeContext) error {
	realm := ctx.Realm
	booleanProto := realm.BooleanPrototype

	// Boolean.prototype is itself a Boolean wrapper for false
	booleanProto.SetPrimitiveValue(vm.False)
	booleanProto.Metatable().ToString = primitiveStringConverter(realm)

	defineMethod(realm, booleanProto, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		p, err := thisPrimitive(realm, this, vm.TypeBoolean, "Boolean.prototype.toString")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(p.String()), nil
	})

	defineMethod(realm, booleanProto, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return thisPrimitive(realm, this, vm.TypeBoolean, "Boolean.prototype.valueOf")
	})

	booleanCtor := defineConstructor(realm, "Boolean", booleanProto, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		primitive := vm.BooleanValue(vm.Arg(args, 0).ToBoolean())

		// If called with 'new', fill in the wrapper
		if vm.WithinNew(this, booleanProto) {
			this.AsObject().SetPrimitiveValue(primitive)
			return this, nil
		}
		// Otherwise, return primitive boolean (type coercion)
		return primitive, nil
	})

	return ctx.DefineGlobal("Boolean", booleanCtor)
}
