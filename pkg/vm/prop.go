package vm

import (
	rterrors "metajs/pkg/errors"
)

// Get resolves key for self starting at prototype. self's own getter runs
// first; then each chain node is checked for a data property and then a
// getter. Getters always run bound to the original self. A miss yields
// Undefined, never Null.
//
// Primitive receivers have no own getters, so only the chain is searched.
func (r *Realm) Get(self Value, prototype *Object, key string) (Value, error) {
	if self.IsObject() {
		if getter, ok := self.obj.getters[key]; ok {
			return getter.obj.call(self, nil)
		}
	}

	depth := 0
	for node := prototype; node != nil; node = node.parent() {
		depth++
		if depth > r.maxDepth {
			return Undefined, r.TypeErrorf("prototype chain of '%s' lookup exceeds %d links", key, r.maxDepth)
		}
		if v, ok := node.properties[key]; ok && v.typ != TypeUndefined {
			return v, nil
		}
		if getter, ok := node.getters[key]; ok {
			return getter.obj.call(self, nil)
		}
	}
	return Undefined, nil
}

// Put assigns key on self. The chain is searched from self itself for a
// setter; a setter found anywhere intercepts the write entirely. Otherwise
// value becomes an own data property of self, shadowing (never mutating)
// any ancestor property of the same name.
func (r *Realm) Put(self *Object, key string, value Value) error {
	receiver := ObjectValue(self)
	depth := 0
	for node := self; node != nil; node = node.parent() {
		depth++
		if depth > r.maxDepth {
			return r.TypeErrorf("prototype chain of '%s' assignment exceeds %d links", key, r.maxDepth)
		}
		if setter, ok := node.setters[key]; ok {
			_, err := setter.obj.call(receiver, []Value{value})
			return err
		}
	}
	self.SetOwn(key, value)
	return nil
}

// GetProperty is the property read dispatch used by compiled code.
// Reading from null or undefined is a TypeError. An own data property is
// returned directly; otherwise wired objects resolve through Get and
// primitives through their realm prototype.
func (r *Realm) GetProperty(v Value, key string) (Value, error) {
	switch v.typ {
	case TypeNull, TypeUndefined:
		return Undefined, r.propertyError(v, key, rterrors.OpRead)
	case TypeObject, TypeFunction:
		if own, ok := v.obj.properties[key]; ok && own.typ != TypeUndefined {
			return own, nil
		}
		if v.obj.meta == nil {
			return Undefined, nil
		}
		return r.Get(v, v.obj.meta.Prototype, key)
	default:
		return r.Get(v, r.primitivePrototype(v), key)
	}
}

// SetProperty is the property write dispatch used by compiled code.
// Writing to null or undefined is a TypeError. Existing own data
// properties are overwritten in place; anything else goes through Put.
// A setter on the chain is therefore bypassed when key is already an own
// data property; use Put directly for setter interception in every case.
// Writes to primitives only reach setters on their prototype and are
// otherwise dropped.
func (r *Realm) SetProperty(v Value, key string, value Value) error {
	switch v.typ {
	case TypeNull, TypeUndefined:
		return r.propertyError(v, key, rterrors.OpWrite)
	case TypeObject, TypeFunction:
		o := v.obj
		if own, ok := o.properties[key]; ok && own.typ != TypeUndefined {
			o.properties[key] = value
			return nil
		}
		if o.meta == nil {
			o.SetOwn(key, value)
			return nil
		}
		return r.Put(o, key, value)
	default:
		for node := r.primitivePrototype(v); node != nil; node = node.parent() {
			if setter, ok := node.setters[key]; ok {
				_, err := setter.obj.call(v, []Value{value})
				return err
			}
		}
		return nil
	}
}

func (r *Realm) propertyError(v Value, key string, op rterrors.PropertyOp) error {
	err := rterrors.NewPropertyError(v.String(), key, op)
	log.Debugf("realm %d: %s", r.id, err.Msg)
	return err
}
