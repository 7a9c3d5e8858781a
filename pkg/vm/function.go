package vm

// NativeFunc is the call protocol shared by getters, setters, methods and
// constructors. this is the receiver the function is bound to.
type NativeFunc func(this Value, args []Value) (Value, error)

// NewNativeFunction creates an unwired Function value.
func NewNativeFunction(name string, fn NativeFunc) Value {
	if fn == nil {
		panic("native function body is nil")
	}
	o := NewObject()
	o.call = fn
	o.name = name
	return ObjectValue(o)
}

// Arg returns args[i], or Undefined when the argument was not passed.
func Arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

// Call invokes fn with this bound to the receiver.
func (r *Realm) Call(fn Value, this Value, args ...Value) (Value, error) {
	if !fn.IsFunction() {
		return Undefined, r.TypeErrorf("%s is not a function", fn.TypeName())
	}
	return fn.obj.call(this, args)
}

// New performs generic object construction: the new object is wired to
// ctor.prototype and the constructor runs with it as receiver. An object
// returned by the constructor replaces the new object.
func (r *Realm) New(ctor Value, args ...Value) (Value, error) {
	if !ctor.IsFunction() {
		return Undefined, r.TypeErrorf("%s is not a constructor", ctor.TypeName())
	}
	proto := r.ObjectPrototype
	if p, ok := ctor.obj.GetOwn("prototype"); ok && p.IsObject() {
		proto = p.obj
	}
	o := NewObject()
	r.SetNewMetatable(o, proto)
	self := ObjectValue(o)

	result, err := ctor.obj.call(self, args)
	if err != nil {
		return Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return self, nil
}
