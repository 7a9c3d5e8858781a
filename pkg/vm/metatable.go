package vm

import "math"

// StringConverter renders a wired object as text.
type StringConverter func(self Value) (string, error)

// Metatable is the per-instance dispatch configuration installed by
// SetNewMetatable. Property reads and writes, numeric and relational
// operators consult it through the Realm entry points.
type Metatable struct {
	// Prototype is the next link of the chain; nil terminates it. It is
	// shared with every other instance of the same prototype.
	Prototype *Object

	// ToString is captured from the prototype's own configuration at
	// wiring time.
	ToString StringConverter

	// ToNumber is the custom numeric conversion override consulted by
	// ToNumber.
	ToNumber func(o *Object) float64
}

// SetNewMetatable wires o to prototype: property reads go through Get,
// writes through Put, numeric conversion through ToNumber(ToPrimitive(o)),
// and string conversion is inherited from the prototype when configured.
func (r *Realm) SetNewMetatable(o *Object, prototype *Object) {
	mt := &Metatable{
		Prototype: prototype,
		ToNumber:  primitiveNumber,
	}
	if prototype != nil && prototype.meta != nil && prototype.meta.ToString != nil {
		mt.ToString = prototype.meta.ToString
	} else {
		mt.ToString = r.defaultStringConverter
	}
	o.meta = mt
}

func (r *Realm) defaultStringConverter(self Value) (string, error) {
	return r.ObjectToString(self.obj), nil
}

// primitiveNumber is ToNumber(ToPrimitive(o)); an object without a cached
// primitive is unconvertible and yields NaN.
func primitiveNumber(o *Object) float64 {
	p := ToPrimitive(ObjectValue(o))
	if p.IsObject() {
		return math.NaN()
	}
	return ToNumber(p)
}

// Prototype returns the prototype v was wired with, or nil when v carries
// no dispatch configuration.
func Prototype(v Value) *Object {
	if !v.IsObject() || v.obj.meta == nil {
		return nil
	}
	return v.obj.meta.Prototype
}

// WithinNew reports whether self was wired with exactly proto. Constructor
// bodies use it to tell `new Ctor()` from a plain call.
func WithinNew(self Value, proto *Object) bool {
	if !self.IsObject() || self.obj.meta == nil {
		return false
	}
	return self.obj.meta.Prototype == proto
}
