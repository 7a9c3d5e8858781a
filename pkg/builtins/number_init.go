package builtins

import (
	"math"
	"strconv"

	"metajs/pkg/vm"
)

type NumberInitializer struct{}

func (n *NumberInitializer) Name() string {
	return "Number"
}

func (n *NumberInitializer) Priority() int {
	return PriorityNumber
}

func (n *NumberInitializer) InitRuntime(ctx *RuntimeContext) error {
	realm := ctx.Realm
	numberProto := realm.NumberPrototype

	numberProto.SetPrimitiveValue(vm.NumberValue(0))
	numberProto.Metatable().ToString = primitiveStringConverter(realm)

	defineMethod(realm, numberProto, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		p, err := thisPrimitive(realm, this, vm.TypeNumber, "Number.prototype.toString")
		if err != nil {
			return vm.Undefined, err
		}
		radix := 10
		if r := vm.Arg(args, 0); !r.IsUndefined() {
			f := math.Trunc(vm.ToNumber(r))
			if math.IsNaN(f) || f < 2 || f > 36 {
				return vm.Undefined, realm.TypeErrorf("toString() radix must be between 2 and 36")
			}
			radix = int(f)
		}
		f := p.AsFloat()
		if radix == 10 || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
			return vm.NewString(vm.NumberToString(f)), nil
		}
		return vm.NewString(strconv.FormatInt(int64(f), radix)), nil
	})

	defineMethod(realm, numberProto, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return thisPrimitive(realm, this, vm.TypeNumber, "Number.prototype.valueOf")
	})

	numberCtor := defineConstructor(realm, "Number", numberProto, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		primitive := vm.NumberValue(0)
		if len(args) > 0 {
			arg := args[0]
			if arg.IsObject() {
				var err error
				if arg, err = realm.DefaultValueNumber(arg); err != nil {
					return vm.Undefined, err
				}
			}
			primitive = vm.NumberValue(vm.ToNumber(arg))
		}

		if vm.WithinNew(this, numberProto) {
			this.AsObject().SetPrimitiveValue(primitive)
			return this, nil
		}
		return primitive, nil
	})

	return ctx.DefineGlobal("Number", numberCtor)
}
