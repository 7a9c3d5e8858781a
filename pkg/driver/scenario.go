package driver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"metajs/pkg/vm"
)

// Scenario is a YAML description of an object graph and a sequence of
// runtime operations applied to it.
//
//	name: getter precedence
//	objects:
//	  - name: base
//	    data: {x: 5}
//	  - name: mid
//	    prototype: base
//	    getters: {x: 42}
//	  - name: o
//	    prototype: mid
//	steps:
//	  - {op: get, target: !ref o, key: x, expect: "42"}
type Scenario struct {
	Name    string       `yaml:"name"`
	Objects []ObjectSpec `yaml:"objects"`
	Steps   []Step       `yaml:"steps"`

	// File is the path the scenario was loaded from (set at load time).
	File string `yaml:"-"`
}

// ObjectSpec declares a named object. Prototype is empty for
// Object.prototype, "null" for no prototype, a builtin name (Object,
// Function, Boolean, Number, String) or an object declared earlier.
type ObjectSpec struct {
	Name      string     `yaml:"name"`
	Prototype string     `yaml:"prototype"`
	Unwired   bool       `yaml:"unwired"`
	Primitive *Literal   `yaml:"primitive"`
	Data      Properties `yaml:"data"`
	// Getters map a key to the value the getter returns; a !field value
	// reads that property of the receiver instead.
	Getters Properties `yaml:"getters"`
	// Setters map a key to the receiver property the written value is
	// stored in.
	Setters Properties `yaml:"setters"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op       string    `yaml:"op"`
	Target   Literal   `yaml:"target"`
	Key      string    `yaml:"key"`
	Value    Literal   `yaml:"value"`
	Proto    string    `yaml:"proto"`
	Operator string    `yaml:"operator"`
	Left     Literal   `yaml:"left"`
	Right    Literal   `yaml:"right"`
	Args     []Literal `yaml:"args"`

	// Expect is compared with the step's result text.
	Expect *string `yaml:"expect"`
	// ExpectError makes the step pass only if it fails with an error
	// containing this text.
	ExpectError string `yaml:"expect_error"`
}

// StepResult records the outcome of one step.
type StepResult struct {
	Step  int      `json:"step" cbor:"step"`
	Op    string   `json:"op" cbor:"op"`
	Value vm.Value `json:"value" cbor:"value"`
	Text  string   `json:"text" cbor:"text"`
	Error string   `json:"error,omitempty" cbor:"error,omitempty"`
}

// ExpectationError reports a step whose result differs from its expect
// or expect_error field.
type ExpectationError struct {
	Scenario string
	Step     int
	Op       string
	Want     string
	Got      string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("%s: step %d (%s): expected %q, got %q", e.Scenario, e.Step, e.Op, e.Want, e.Got)
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	sc.File = path
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// scenarioEnv holds the objects declared by one scenario run.
type scenarioEnv struct {
	session *Session
	objects map[string]vm.Value
}

// RunScenario builds the scenario's objects in the session realm and runs
// its steps in order. It stops at the first failing or mismatching step
// and returns the results gathered so far.
func (s *Session) RunScenario(sc *Scenario) ([]StepResult, error) {
	env := &scenarioEnv{session: s, objects: make(map[string]vm.Value)}
	for _, spec := range sc.Objects {
		if err := env.declare(spec); err != nil {
			return nil, fmt.Errorf("%s: object %q: %w", sc.Name, spec.Name, err)
		}
	}
	log.Debugf("scenario %q: %d objects declared", sc.Name, len(env.objects))

	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		res := StepResult{Step: i + 1, Op: step.Op}
		v, text, err := env.run(step)
		if err != nil {
			if step.ExpectError == "" {
				return results, fmt.Errorf("%s: step %d (%s): %w", sc.Name, res.Step, step.Op, err)
			}
			if !strings.Contains(err.Error(), step.ExpectError) {
				return results, &ExpectationError{Scenario: sc.Name, Step: res.Step, Op: step.Op, Want: step.ExpectError, Got: err.Error()}
			}
			res.Error = err.Error()
			results = append(results, res)
			continue
		}

		res.Value, res.Text = v, text
		if step.ExpectError != "" {
			return results, &ExpectationError{Scenario: sc.Name, Step: res.Step, Op: step.Op, Want: step.ExpectError, Got: text}
		}
		if step.Expect != nil && *step.Expect != text {
			return results, &ExpectationError{Scenario: sc.Name, Step: res.Step, Op: step.Op, Want: *step.Expect, Got: text}
		}
		results = append(results, res)
	}
	return results, nil
}

func (env *scenarioEnv) realm() *vm.Realm {
	return env.session.realm
}

// prototype resolves a prototype name; "null" yields nil.
func (env *scenarioEnv) prototype(name string) (*vm.Object, error) {
	switch name {
	case "":
		return env.realm().ObjectPrototype, nil
	case "null":
		return nil, nil
	}
	if proto, ok := env.session.prototypeByName(name); ok {
		return proto, nil
	}
	if v, ok := env.objects[name]; ok {
		return v.AsObject(), nil
	}
	return nil, fmt.Errorf("unknown prototype %q", name)
}

func (env *scenarioEnv) declare(spec ObjectSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("object name is required")
	}
	if _, dup := env.objects[spec.Name]; dup {
		return fmt.Errorf("object declared twice")
	}
	realm := env.realm()

	var o *vm.Object
	if spec.Unwired {
		o = vm.NewObject()
	} else {
		proto, err := env.prototype(spec.Prototype)
		if err != nil {
			return err
		}
		o = realm.NewObject(proto)
	}
	self := vm.ObjectValue(o)
	// Declared before its properties so data may refer to the object itself.
	env.objects[spec.Name] = self

	if spec.Primitive != nil {
		p, err := env.resolve(*spec.Primitive)
		if err != nil {
			return err
		}
		if p.IsObject() {
			return fmt.Errorf("primitive must not be an object")
		}
		o.SetPrimitiveValue(p)
	}

	for _, prop := range spec.Data {
		v, err := env.resolve(prop.Value)
		if err != nil {
			return fmt.Errorf("data %q: %w", prop.Key, err)
		}
		o.SetOwn(prop.Key, v)
	}

	for _, prop := range spec.Getters {
		getter, err := env.getter(prop)
		if err != nil {
			return fmt.Errorf("getter %q: %w", prop.Key, err)
		}
		o.DefineGetter(prop.Key, getter)
	}

	for _, prop := range spec.Setters {
		if prop.Value.kind != literalString {
			return fmt.Errorf("setter %q: target must be a property name", prop.Key)
		}
		field := prop.Value.str
		o.DefineSetter(prop.Key, realm.NewFunction("set "+prop.Key, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.Undefined, realm.SetProperty(this, field, vm.Arg(args, 0))
		}))
	}
	return nil
}

func (env *scenarioEnv) getter(prop Property) (vm.Value, error) {
	realm := env.realm()
	if prop.Value.kind == literalField {
		field := prop.Value.str
		return realm.NewFunction("get "+prop.Key, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return realm.GetProperty(this, field)
		}), nil
	}
	v, err := env.resolve(prop.Value)
	if err != nil {
		return vm.Undefined, err
	}
	return realm.NewFunction("get "+prop.Key, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return v, nil
	}), nil
}

func (env *scenarioEnv) resolve(l Literal) (vm.Value, error) {
	switch l.kind {
	case literalNull:
		return vm.Null, nil
	case literalUndefined:
		return vm.Undefined, nil
	case literalBoolean:
		return vm.BooleanValue(l.boolean), nil
	case literalNumber:
		return vm.NumberValue(l.number), nil
	case literalString:
		return vm.NewString(l.str), nil
	case literalRef:
		if v, ok := env.objects[l.str]; ok {
			return v, nil
		}
		return vm.Undefined, fmt.Errorf("unknown object %q", l.str)
	case literalGlobal:
		v := env.realm().Global(l.str)
		if v.IsUndefined() {
			return vm.Undefined, fmt.Errorf("unknown global %q", l.str)
		}
		return v, nil
	case literalField:
		return vm.Undefined, fmt.Errorf("!field is only valid as a getter value")
	}
	return vm.Undefined, fmt.Errorf("unsupported literal kind %d", l.kind)
}

func (env *scenarioEnv) resolveAll(ls []Literal) ([]vm.Value, error) {
	vs := make([]vm.Value, len(ls))
	for i, l := range ls {
		v, err := env.resolve(l)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// display renders a step result for comparison with expect.
func (env *scenarioEnv) display(v vm.Value) (vm.Value, string, error) {
	s, err := env.realm().ToString(v)
	if err != nil {
		return vm.Undefined, "", err
	}
	return v, s, nil
}

func (env *scenarioEnv) run(step Step) (vm.Value, string, error) {
	realm := env.realm()

	switch step.Op {
	case "get", "put", "tonumber", "toprimitive", "tostring", "toobject", "withinnew", "new", "dump":
	case "arith", "less", "lessequal", "equal", "strictequal":
		return env.runBinary(step)
	default:
		return vm.Undefined, "", fmt.Errorf("unknown op %q", step.Op)
	}

	target, err := env.resolve(step.Target)
	if err != nil {
		return vm.Undefined, "", err
	}

	switch step.Op {
	case "get":
		var v vm.Value
		if step.Proto == "" {
			v, err = realm.GetProperty(target, step.Key)
		} else {
			var proto *vm.Object
			if proto, err = env.prototype(step.Proto); err != nil {
				return vm.Undefined, "", err
			}
			v, err = realm.Get(target, proto, step.Key)
		}
		if err != nil {
			return vm.Undefined, "", err
		}
		return env.display(v)

	case "put":
		value, err := env.resolve(step.Value)
		if err != nil {
			return vm.Undefined, "", err
		}
		if err := realm.SetProperty(target, step.Key, value); err != nil {
			return vm.Undefined, "", err
		}
		return env.display(value)

	case "tonumber":
		return env.display(vm.NumberValue(vm.ToNumber(target)))

	case "toprimitive":
		if target.IsObject() && target.AsObject().Metatable() == nil {
			return vm.Undefined, "", fmt.Errorf("object has no dispatch configuration")
		}
		return env.display(vm.ToPrimitive(target))

	case "tostring":
		s, err := realm.ToString(target)
		if err != nil {
			return vm.Undefined, "", err
		}
		return vm.NewString(s), s, nil

	case "toobject":
		obj, err := realm.ToObject(target)
		if err != nil {
			return vm.Undefined, "", err
		}
		return env.display(obj)

	case "withinnew":
		proto, err := env.prototype(step.Proto)
		if err != nil {
			return vm.Undefined, "", err
		}
		return env.display(vm.BooleanValue(vm.WithinNew(target, proto)))

	case "new":
		args, err := env.resolveAll(step.Args)
		if err != nil {
			return vm.Undefined, "", err
		}
		obj, err := realm.New(target, args...)
		if err != nil {
			return vm.Undefined, "", err
		}
		return env.display(obj)

	default: // dump
		data, err := target.MarshalJSON()
		if err != nil {
			return vm.Undefined, "", err
		}
		return target, string(data), nil
	}
}

func (env *scenarioEnv) runBinary(step Step) (vm.Value, string, error) {
	realm := env.realm()
	a, err := env.resolve(step.Left)
	if err != nil {
		return vm.Undefined, "", err
	}
	b, err := env.resolve(step.Right)
	if err != nil {
		return vm.Undefined, "", err
	}

	var result bool
	switch step.Op {
	case "arith":
		op, ok := vm.ParseArithOp(step.Operator)
		if !ok {
			return vm.Undefined, "", fmt.Errorf("unknown arithmetic operator %q", step.Operator)
		}
		v, err := realm.Arith(op, a, b)
		if err != nil {
			return vm.Undefined, "", err
		}
		return env.display(v)
	case "less":
		result, err = realm.Less(a, b)
	case "lessequal":
		result, err = realm.LessEqual(a, b)
	case "equal":
		result, err = realm.Equal(a, b)
	default: // strictequal
		result = vm.StrictEqual(a, b)
	}
	if err != nil {
		return vm.Undefined, "", err
	}
	return env.display(vm.BooleanValue(result))
}
