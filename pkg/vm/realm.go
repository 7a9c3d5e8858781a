package vm

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tliron/commonlog"

	rterrors "metajs/pkg/errors"
)

var log = commonlog.GetLogger("metajs.vm")

// DefaultMaxPrototypeDepth bounds prototype chain walks. Chains are acyclic
// by convention only; the bound turns an accidental cycle into a TypeError.
const DefaultMaxPrototypeDepth = 1 << 16

// ErrBoxingNotInstalled is returned by ToObject before InstallBoxing ran.
var ErrBoxingNotInstalled = errors.New("primitive boxing constructors are not installed")

var realmIDs atomic.Int64

// Boxing holds the constructors ToObject uses to wrap primitives.
type Boxing struct {
	Boolean Value
	Number  Value
	String  Value
}

// Options configures a Realm.
type Options struct {
	// MaxPrototypeDepth bounds Get/Put chain walks; 0 selects the default.
	MaxPrototypeDepth int
	// ObjectToString renders objects lacking a configured string
	// conversion; nil selects "[object Object]".
	ObjectToString func(o *Object) string
}

// Realm is an isolated set of built-in prototypes and constructors. Values
// may not be shared between realms, except for Null and Undefined.
// A Realm is not safe for concurrent use.
type Realm struct {
	id int64

	// Built-in prototypes
	ObjectPrototype   *Object
	FunctionPrototype *Object
	BooleanPrototype  *Object
	NumberPrototype   *Object
	StringPrototype   *Object

	// Globals is an unwired object holding named built-ins.
	Globals *Object

	// ObjectToString is the generic object-to-string fallback.
	ObjectToString func(o *Object) string

	boxing   *Boxing
	maxDepth int
}

// NewRealm creates a realm with empty, wired built-in prototypes. Builtins
// populate them and then call InstallBoxing.
func NewRealm(opts Options) *Realm {
	r := &Realm{
		id:             realmIDs.Add(1),
		Globals:        NewObject(),
		ObjectToString: opts.ObjectToString,
		maxDepth:       opts.MaxPrototypeDepth,
	}
	if r.ObjectToString == nil {
		r.ObjectToString = DefaultObjectToString
	}
	if r.maxDepth <= 0 {
		r.maxDepth = DefaultMaxPrototypeDepth
	}
	r.initializePrototypes()
	log.Debugf("realm %d created (max prototype depth %d)", r.id, r.maxDepth)
	return r
}

// ID returns the unique identifier for this realm.
func (r *Realm) ID() int64 {
	return r.id
}

// initializePrototypes creates the prototype chain for this realm.
func (r *Realm) initializePrototypes() {
	// Object.prototype is the root
	r.ObjectPrototype = NewObject()
	r.SetNewMetatable(r.ObjectPrototype, nil)

	r.FunctionPrototype = r.NewObject(r.ObjectPrototype)
	r.BooleanPrototype = r.NewObject(r.ObjectPrototype)
	r.NumberPrototype = r.NewObject(r.ObjectPrototype)
	r.StringPrototype = r.NewObject(r.ObjectPrototype)
}

// NewObject creates an object wired to proto.
func (r *Realm) NewObject(proto *Object) *Object {
	o := NewObject()
	r.SetNewMetatable(o, proto)
	return o
}

// NewFunction creates a Function value wired to Function.prototype.
func (r *Realm) NewFunction(name string, fn NativeFunc) Value {
	f := NewNativeFunction(name, fn)
	r.SetNewMetatable(f.obj, r.FunctionPrototype)
	return f
}

// InstallBoxing wires the Boolean/Number/String constructors ToObject uses.
// It is the second initialization phase, run once every constructor exists.
func (r *Realm) InstallBoxing(b Boxing) error {
	for name, ctor := range map[string]Value{"Boolean": b.Boolean, "Number": b.Number, "String": b.String} {
		if !ctor.IsFunction() {
			return fmt.Errorf("boxing constructor %s is %s, not a function", name, ctor.TypeName())
		}
	}
	r.boxing = &b
	log.Debugf("realm %d: boxing constructors installed", r.id)
	return nil
}

// DefineGlobal binds name in the realm's global object.
func (r *Realm) DefineGlobal(name string, v Value) {
	r.Globals.SetOwn(name, v)
}

// Global returns the value bound to name, or Undefined.
func (r *Realm) Global(name string) Value {
	v, _ := r.Globals.GetOwn(name)
	return v
}

// primitivePrototype returns the prototype primitives of v's type read
// through.
func (r *Realm) primitivePrototype(v Value) *Object {
	switch v.typ {
	case TypeBoolean:
		return r.BooleanPrototype
	case TypeNumber:
		return r.NumberPrototype
	case TypeString:
		return r.StringPrototype
	}
	return nil
}

// TypeErrorf builds a TypeError through the error reporting facility.
func (r *Realm) TypeErrorf(format string, args ...any) error {
	err := rterrors.NewTypeErrorf(format, args...)
	log.Debugf("realm %d: %s", r.id, err.Msg)
	return err
}

// DefaultObjectToString is the generic object-to-string representation.
func DefaultObjectToString(o *Object) string {
	if o.call != nil {
		return "function " + o.name + "() { [native code] }"
	}
	return "[object Object]"
}
