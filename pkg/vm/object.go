package vm

// Object is a mutable keyed container. Data properties, getters and setters
// live in three separate tables so an accessor can never collide with a
// data property of the same (or a prefixed) name.
type Object struct {
	keys       []string // own data keys in insertion order
	properties map[string]Value

	// Accessor storage keyed by property name
	getters map[string]Value
	setters map[string]Value

	// Cached primitive for wrapper objects (Boolean/Number/String)
	primitive    Value
	hasPrimitive bool

	// Dispatch configuration; nil until SetNewMetatable wires the object.
	meta *Metatable

	// Call body and name for Function values
	call NativeFunc
	name string
}

// NewObject creates an unwired object with no properties.
func NewObject() *Object {
	return &Object{properties: make(map[string]Value)}
}

// GetOwn looks up a direct (own) data property by name. Returns (value, true) if present.
func (o *Object) GetOwn(name string) (Value, bool) {
	v, ok := o.properties[name]
	if !ok {
		return Undefined, false
	}
	return v, true
}

// SetOwn sets or defines an own data property, bypassing setters.
func (o *Object) SetOwn(name string, v Value) {
	if _, exists := o.properties[name]; !exists {
		o.keys = append(o.keys, name)
	}
	o.properties[name] = v
}

// HasOwn reports whether an own data property with the given name exists.
func (o *Object) HasOwn(name string) bool {
	_, ok := o.properties[name]
	return ok
}

// DeleteOwn removes an own data property. Returns true if it was present.
func (o *Object) DeleteOwn(name string) bool {
	if _, ok := o.properties[name]; !ok {
		return false
	}
	delete(o.properties, name)
	for i, k := range o.keys {
		if k == name {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns own data property names in insertion order.
func (o *Object) OwnKeys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// DefineGetter installs fn as the getter for name on this object.
func (o *Object) DefineGetter(name string, fn Value) {
	if !fn.IsFunction() {
		panic("getter must be a function")
	}
	if o.getters == nil {
		o.getters = make(map[string]Value)
	}
	o.getters[name] = fn
}

// DefineSetter installs fn as the setter for name on this object.
func (o *Object) DefineSetter(name string, fn Value) {
	if !fn.IsFunction() {
		panic("setter must be a function")
	}
	if o.setters == nil {
		o.setters = make(map[string]Value)
	}
	o.setters[name] = fn
}

// Getter returns the own getter for name, if any.
func (o *Object) Getter(name string) (Value, bool) {
	fn, ok := o.getters[name]
	return fn, ok
}

// Setter returns the own setter for name, if any.
func (o *Object) Setter(name string) (Value, bool) {
	fn, ok := o.setters[name]
	return fn, ok
}

// SetPrimitiveValue caches the primitive a wrapper object stands for.
func (o *Object) SetPrimitiveValue(v Value) {
	if v.IsObject() {
		panic("cached primitive must not be an object")
	}
	o.primitive = v
	o.hasPrimitive = true
}

// PrimitiveValue returns the cached primitive, if any.
func (o *Object) PrimitiveValue() (Value, bool) {
	return o.primitive, o.hasPrimitive
}

// Metatable returns the dispatch configuration, or nil for unwired objects.
func (o *Object) Metatable() *Metatable {
	return o.meta
}

// Name returns the function name for Function objects.
func (o *Object) Name() string {
	return o.name
}

// IsCallable reports whether the object carries a call body.
func (o *Object) IsCallable() bool {
	return o.call != nil
}

// parent returns the next link of the prototype chain.
func (o *Object) parent() *Object {
	if o.meta == nil {
		return nil
	}
	return o.meta.Prototype
}
