package builtins

import (
	"metajs/pkg/vm"
)

type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject
}

func (o *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	realm := ctx.Realm
	objectProto := realm.ObjectPrototype

	defineMethod(realm, objectProto, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NewString("[object " + className(this) + "]"), nil
	})

	defineMethod(realm, objectProto, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return realm.ToObject(this)
	})

	defineMethod(realm, objectProto, "hasOwnProperty", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		obj, err := realm.ToObject(this)
		if err != nil {
			return vm.Undefined, err
		}
		key, err := realm.ToString(vm.Arg(args, 0))
		if err != nil {
			return vm.Undefined, err
		}
		o := obj.AsObject()
		_, hasGetter := o.Getter(key)
		_, hasSetter := o.Setter(key)
		return vm.BooleanValue(o.HasOwn(key) || hasGetter || hasSetter), nil
	})

	objectCtor := defineConstructor(realm, "Object", objectProto, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := vm.Arg(args, 0)
		if arg.IsNullish() {
			if vm.WithinNew(this, objectProto) {
				return this, nil
			}
			return vm.ObjectValue(realm.NewObject(objectProto)), nil
		}
		return realm.ToObject(arg)
	})

	return ctx.DefineGlobal("Object", objectCtor)
}

// className is the tag Object.prototype.toString reports.
func className(v vm.Value) string {
	switch v.Type() {
	case vm.TypeUndefined:
		return "Undefined"
	case vm.TypeNull:
		return "Null"
	case vm.TypeFunction:
		return "Function"
	case vm.TypeBoolean:
		return "Boolean"
	case vm.TypeNumber:
		return "Number"
	case vm.TypeString:
		return "String"
	}
	if p, ok := v.AsObject().PrimitiveValue(); ok {
		return className(p)
	}
	return "Object"
}
