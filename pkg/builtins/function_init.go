package builtins

import (
	"metajs/pkg/vm"
)

type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string {
	return "Function"
}

func (f *FunctionInitializer) Priority() int {
	return PriorityFunction
}

func (f *FunctionInitializer) InitRuntime(ctx *RuntimeContext) error {
	realm := ctx.Realm

	defineMethod(realm, realm.FunctionPrototype, "call", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		var rest []vm.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return realm.Call(this, vm.Arg(args, 0), rest...)
	})

	defineMethod(realm, realm.FunctionPrototype, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsFunction() {
			return vm.Undefined, realm.TypeErrorf("Function.prototype.toString requires that 'this' be a Function")
		}
		return vm.NewString(realm.ObjectToString(this.AsObject())), nil
	})

	return nil
}
