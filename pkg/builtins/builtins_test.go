package builtins

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	rterrors "metajs/pkg/errors"
	"metajs/pkg/vm"
)

func newTestRealm(t *testing.T) *vm.Realm {
	t.Helper()
	realm := vm.NewRealm(vm.Options{})
	if err := Initialize(realm); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return realm
}

func TestStandardInitializerOrder(t *testing.T) {
	var names []string
	for _, init := range GetStandardInitializers() {
		names = append(names, init.Name())
	}
	want := []string{"Object", "Function", "String", "Number", "Boolean"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Initializer order mismatch (-want +got):\n%s", diff)
	}
}

func TestGlobalsDefined(t *testing.T) {
	realm := newTestRealm(t)
	for _, name := range []string{"Object", "Boolean", "Number", "String"} {
		if !realm.Global(name).IsFunction() {
			t.Errorf("Global %s should be a function", name)
		}
	}
	if diff := cmp.Diff([]string{"Object", "String", "Number", "Boolean"}, realm.Globals.OwnKeys()); diff != "" {
		t.Errorf("Globals mismatch (-want +got):\n%s", diff)
	}
}

func TestInitializeTwiceFails(t *testing.T) {
	realm := newTestRealm(t)
	if err := Initialize(realm); err == nil {
		t.Errorf("Redefining globals should fail")
	}
}

func TestBoxingWithoutConstructorsFails(t *testing.T) {
	realm := vm.NewRealm(vm.Options{})
	err := InitializeWith(realm, []BuiltinInitializer{&ObjectInitializer{}})
	if err == nil {
		t.Errorf("Expected boxing installation to fail without Boolean/Number/String")
	}
}

func TestToObjectRoundTrip(t *testing.T) {
	realm := newTestRealm(t)
	tests := []struct {
		v     vm.Value
		proto *vm.Object
	}{
		{vm.True, realm.BooleanPrototype},
		{vm.NumberValue(3.5), realm.NumberPrototype},
		{vm.NewString("x"), realm.StringPrototype},
	}
	for _, tt := range tests {
		boxed, err := realm.ToObject(tt.v)
		if err != nil {
			t.Fatalf("ToObject(%s) failed: %v", tt.v.String(), err)
		}
		if boxed.Type() != vm.TypeObject {
			t.Errorf("ToObject(%s) should be an object, got %s", tt.v.String(), boxed.Type())
		}
		if vm.Prototype(boxed) != tt.proto {
			t.Errorf("ToObject(%s) wired to the wrong prototype", tt.v.String())
		}
		if got := vm.ToPrimitive(boxed); !got.Is(tt.v) {
			t.Errorf("ToPrimitive(ToObject(%s)) = %s", tt.v.String(), got.String())
		}
	}

	for _, v := range []vm.Value{vm.Undefined, vm.Null} {
		if _, err := realm.ToObject(v); !rterrors.IsTypeError(err) {
			t.Errorf("ToObject(%s): expected TypeError, got %v", v.String(), err)
		}
	}
}

func TestWrapperConversions(t *testing.T) {
	realm := newTestRealm(t)
	boxed, _ := realm.ToObject(vm.NumberValue(42))

	s, err := realm.ToString(boxed)
	if err != nil || s != "42" {
		t.Errorf("Expected \"42\", got %q (%v)", s, err)
	}
	if n := vm.ToNumber(boxed); n != 42 {
		t.Errorf("Expected 42, got %v", n)
	}

	str, _ := realm.ToObject(vm.NewString("7"))
	sum, err := realm.Arith(vm.OpAdd, str, vm.NumberValue(1))
	if err != nil || sum.AsString() != "71" {
		t.Errorf("Expected \"71\", got %v (%v)", sum, err)
	}
	diff, err := realm.Arith(vm.OpSub, str, vm.NumberValue(1))
	if err != nil || diff.AsFloat() != 6 {
		t.Errorf("Expected 6, got %v (%v)", diff, err)
	}
}

func TestConstructorsCalledAsFunctions(t *testing.T) {
	realm := newTestRealm(t)
	tests := []struct {
		ctor string
		args []vm.Value
		want vm.Value
	}{
		{"Boolean", nil, vm.False},
		{"Boolean", []vm.Value{vm.NewString("x")}, vm.True},
		{"Boolean", []vm.Value{vm.Null}, vm.False},
		{"Number", nil, vm.NumberValue(0)},
		{"Number", []vm.Value{vm.NewString(" 12 ")}, vm.NumberValue(12)},
		{"Number", []vm.Value{vm.Null}, vm.NumberValue(0)},
		{"Number", []vm.Value{vm.Undefined}, vm.NaN},
		{"String", nil, vm.NewString("")},
		{"String", []vm.Value{vm.NumberValue(1.5)}, vm.NewString("1.5")},
		{"String", []vm.Value{vm.Null}, vm.NewString("null")},
	}
	for _, tt := range tests {
		got, err := realm.Call(realm.Global(tt.ctor), vm.Undefined, tt.args...)
		if err != nil {
			t.Fatalf("%s(%v) failed: %v", tt.ctor, tt.args, err)
		}
		if !got.Is(tt.want) {
			t.Errorf("%s(%v): expected %s (%s), got %s (%s)", tt.ctor, tt.args,
				tt.want.String(), tt.want.Type(), got.String(), got.Type())
		}
	}
}

func TestConstructorsWithNew(t *testing.T) {
	realm := newTestRealm(t)

	b, err := realm.New(realm.Global("Boolean"), vm.NumberValue(0))
	if err != nil {
		t.Fatalf("new Boolean failed: %v", err)
	}
	if !vm.WithinNew(b, realm.BooleanPrototype) {
		t.Errorf("new Boolean should be wired to Boolean.prototype")
	}
	if !b.ToBoolean() {
		t.Errorf("Wrapper objects are truthy even around false")
	}
	if p := vm.ToPrimitive(b); !p.StrictlyEquals(vm.False) {
		t.Errorf("Expected cached false, got %s", p.String())
	}

	// Number(obj) goes through valueOf
	n, _ := realm.New(realm.Global("Number"), vm.NumberValue(5))
	got, err := realm.Call(realm.Global("Number"), vm.Undefined, n)
	if err != nil || got.AsFloat() != 5 {
		t.Errorf("Number(new Number(5)) = %v (%v)", got, err)
	}

	// String(obj) goes through toString
	o, _ := realm.New(realm.Global("Object"))
	got, err = realm.Call(realm.Global("String"), vm.Undefined, o)
	if err != nil || got.AsString() != "[object Object]" {
		t.Errorf("String({}) = %v (%v)", got, err)
	}
}

func TestPrimitiveMethods(t *testing.T) {
	realm := newTestRealm(t)

	call := func(recv vm.Value, name string, args ...vm.Value) vm.Value {
		t.Helper()
		fn, err := realm.GetProperty(recv, name)
		if err != nil {
			t.Fatalf("GetProperty(%s) failed: %v", name, err)
		}
		v, err := realm.Call(fn, recv, args...)
		if err != nil {
			t.Fatalf("%s() failed: %v", name, err)
		}
		return v
	}

	if v := call(vm.NumberValue(255), "toString", vm.NumberValue(16)); v.AsString() != "ff" {
		t.Errorf("(255).toString(16) = %s", v.String())
	}
	if v := call(vm.NumberValue(1.5), "toString"); v.AsString() != "1.5" {
		t.Errorf("(1.5).toString() = %s", v.String())
	}
	if v := call(vm.True, "toString"); v.AsString() != "true" {
		t.Errorf("true.toString() = %s", v.String())
	}
	if v := call(vm.NewString("s"), "valueOf"); v.AsString() != "s" {
		t.Errorf("'s'.valueOf() = %s", v.String())
	}
	if v := call(vm.NumberValue(1), "hasOwnProperty", vm.NewString("x")); v.AsBoolean() {
		t.Errorf("(1).hasOwnProperty('x') should be false")
	}

	fn, _ := realm.GetProperty(vm.NumberValue(1), "toString")
	if _, err := realm.Call(fn, vm.NewString("not a number")); !rterrors.IsTypeError(err) {
		t.Errorf("Number.prototype.toString on a string: expected TypeError, got %v", err)
	}
	for _, radix := range []vm.Value{vm.NumberValue(1), vm.NaN, vm.NewString("abc"), vm.NumberValue(math.Inf(1)), vm.NumberValue(37)} {
		if _, err := realm.Call(fn, vm.NumberValue(1), radix); !rterrors.IsTypeError(err) {
			t.Errorf("radix %s: expected TypeError, got %v", radix.String(), err)
		}
	}
	if v := call(vm.NumberValue(5), "toString", vm.NumberValue(2.9)); v.AsString() != "101" {
		t.Errorf("(5).toString(2.9) = %s", v.String())
	}
}

func TestStringLength(t *testing.T) {
	realm := newTestRealm(t)
	tests := []struct {
		s    string
		want float64
	}{
		{"", 0},
		{"abc", 3},
		{"héllo", 5},
		{"😀", 2}, // surrogate pair
	}
	for _, tt := range tests {
		v, err := realm.GetProperty(vm.NewString(tt.s), "length")
		if err != nil {
			t.Fatalf("length of %q failed: %v", tt.s, err)
		}
		if v.AsFloat() != tt.want {
			t.Errorf("length of %q: expected %v, got %v", tt.s, tt.want, v.AsFloat())
		}
	}

	boxed, _ := realm.ToObject(vm.NewString("four"))
	v, err := realm.GetProperty(boxed, "length")
	if err != nil || v.AsFloat() != 4 {
		t.Errorf("length of boxed string = %v (%v)", v, err)
	}
}

func TestObjectPrototypeMethods(t *testing.T) {
	realm := newTestRealm(t)
	o := realm.NewObject(realm.ObjectPrototype)
	o.SetOwn("a", vm.NumberValue(1))
	self := vm.ObjectValue(o)

	hasOwn, _ := realm.GetProperty(self, "hasOwnProperty")
	for key, want := range map[string]bool{"a": true, "b": false, "toString": false} {
		got, err := realm.Call(hasOwn, self, vm.NewString(key))
		if err != nil {
			t.Fatalf("hasOwnProperty failed: %v", err)
		}
		if got.AsBoolean() != want {
			t.Errorf("hasOwnProperty(%q): expected %v, got %v", key, want, got.AsBoolean())
		}
	}

	toString, _ := realm.GetProperty(self, "toString")
	for _, tt := range []struct {
		v    vm.Value
		want string
	}{
		{self, "[object Object]"},
		{vm.Null, "[object Null]"},
		{vm.NumberValue(1), "[object Number]"},
		{realm.Global("Object"), "[object Function]"},
	} {
		got, err := realm.Call(toString, tt.v)
		if err != nil || got.AsString() != tt.want {
			t.Errorf("toString: expected %q, got %v (%v)", tt.want, got, err)
		}
	}

	// Object(x) boxes primitives, Object() makes a fresh object
	boxed, err := realm.Call(realm.Global("Object"), vm.Undefined, vm.NumberValue(2))
	if err != nil || vm.Prototype(boxed) != realm.NumberPrototype {
		t.Errorf("Object(2) should box, got %v (%v)", boxed, err)
	}
	fresh, err := realm.Call(realm.Global("Object"), vm.Undefined)
	if err != nil || vm.Prototype(fresh) != realm.ObjectPrototype {
		t.Errorf("Object() should create a plain object, got %v (%v)", fresh, err)
	}
}

func TestLessWithWrappers(t *testing.T) {
	realm := newTestRealm(t)
	three, _ := realm.ToObject(vm.NumberValue(3))
	less, err := realm.Less(three, vm.NumberValue(4))
	if err != nil || !less {
		t.Errorf("new Number(3) < 4: got %v (%v)", less, err)
	}
	less, err = realm.Less(vm.Null, three)
	if err != nil || less {
		t.Errorf("null < object should be false, got %v (%v)", less, err)
	}
	le, err := realm.LessEqual(three, vm.NewString("3"))
	if err != nil || !le {
		t.Errorf("new Number(3) <= '3': got %v (%v)", le, err)
	}
	if math.IsNaN(vm.ToNumber(three)) {
		t.Errorf("ToNumber of a number wrapper should not be NaN")
	}
}

func TestFunctionPrototypeCall(t *testing.T) {
	realm := newTestRealm(t)
	var got vm.Value
	fn := realm.NewFunction("f", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		got = this
		return vm.Arg(args, 0), nil
	})
	call, err := realm.GetProperty(fn, "call")
	if err != nil || !call.IsFunction() {
		t.Fatalf("Function.prototype.call missing: %v", err)
	}
	res, err := realm.Call(call, fn, vm.NewString("recv"), vm.NumberValue(9))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if got.AsString() != "recv" || res.AsFloat() != 9 {
		t.Errorf("call bound %v and returned %v", got, res)
	}
}
