package builtins

import (
	"unicode/utf16"

	"metajs/pkg/vm"
)

type StringInitializer struct{}

func (s *StringInitializer) Name() string {
	return "String"
}

func (s *StringInitializer) Priority() int {
	return PriorityString
}

func (s *StringInitializer) InitRuntime(ctx *RuntimeContext) error {
	realm := ctx.Realm
	stringProto := realm.StringPrototype

	stringProto.SetPrimitiveValue(vm.NewString(""))
	stringProto.Metatable().ToString = primitiveStringConverter(realm)

	defineMethod(realm, stringProto, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return thisPrimitive(realm, this, vm.TypeString, "String.prototype.toString")
	})

	defineMethod(realm, stringProto, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return thisPrimitive(realm, this, vm.TypeString, "String.prototype.valueOf")
	})

	// length counts UTF-16 code units
	stringProto.DefineGetter("length", realm.NewFunction("length", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		p, err := thisPrimitive(realm, this, vm.TypeString, "String.prototype.length")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NumberValue(float64(len(utf16.Encode([]rune(p.AsString()))))), nil
	}))

	stringCtor := defineConstructor(realm, "String", stringProto, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		primitive := vm.NewString("")
		if len(args) > 0 {
			str, err := toStringValue(realm, args[0])
			if err != nil {
				return vm.Undefined, err
			}
			primitive = vm.NewString(str)
		}

		if vm.WithinNew(this, stringProto) {
			this.AsObject().SetPrimitiveValue(primitive)
			return this, nil
		}
		return primitive, nil
	})

	return ctx.DefineGlobal("String", stringCtor)
}

// toStringValue converts objects through DefaultValueString before the
// generic string conversion.
func toStringValue(realm *vm.Realm, v vm.Value) (string, error) {
	if v.IsObject() {
		var err error
		if v, err = realm.DefaultValueString(v); err != nil {
			return "", err
		}
	}
	return realm.ToString(v)
}
