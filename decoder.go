package optdec

import (
	"encoding"
	"fmt"
	"golang.org/x/exp/constraints"
	"reflect"
	"sync"
	"unsafe"
)

// NotSupportedError reports a target type options cannot be decoded into.
type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}

// Enum marks a string-backed type with a fixed set of accepted values.
// Fields of an Enum type decode through [Session.DecodeEnum], matching the
// option value against the tags EnumTags reports. The type must have
// string as its underlying kind.
type Enum interface {
	EnumTags() []string
}

// Unmarshal decodes opts into the struct pointed to by target using the
// default decoder.
func Unmarshal(opts *Options, target any) error {
	return dec.Unmarshal(opts, target)
}

// UnmarshalNew decodes opts into a new value of type T.
func UnmarshalNew[T any](opts *Options) (T, error) {
	return UnmarshalNewWith[T](&dec, opts)
}

func UnmarshalNewWith[T any](dec *Decoder, opts *Options) (T, error) {
	var target T
	err := dec.Unmarshal(opts, &target)
	return target, err
}

// A setter decodes the option named name from the session into target.
type setter func(sess *Session, name string, target reflect.Value) error

// A set of types that are currently in construction
type typeSet map[reflect.Type]struct{}

var tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
var tyEnum = reflect.TypeFor[Enum]()
var tySize = reflect.TypeFor[Size]()

// The default Decoder instance.
var dec Decoder

// Decoder turns parsed [Options] into typed structs by driving a [Session]
// over the target's fields. Every exported field consumes the identically
// named option: plain fields decode as mandatory scalars, pointer fields
// are optional and stay nil when their option is absent, slice fields
// decode as lists, and nested structs share the enclosing flat namespace.
// Field names can be renamed or skipped with the "opt" struct tag, which
// follows the json tag syntax.
type Decoder struct {
	// the struct tag that is used
	structTag string

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map
}

func NewDecoder() *Decoder {
	return &Decoder{
		structTag: "opt",
	}
}

func (d *Decoder) WithTag(structTag string) *Decoder {
	if d.structTag == structTag {
		return d
	}

	return &Decoder{
		structTag: structTag,
	}
}

// Unmarshal decodes opts into the struct pointed to by target. The decode
// fails with [MissingParameterError] when a mandatory field has no
// occurrence, and with [InvalidParameterError] when an occurrence is
// consumed by no field.
//
// The target must be a plain struct: types that decode through one scalar
// operation, such as a struct implementing [encoding.TextUnmarshaler],
// cannot be the root because no enclosing struct names their occurrence.
func (d *Decoder) Unmarshal(opts *Options, target any) error {
	targetValue := reflect.ValueOf(target).Elem()
	if !structPointee(targetValue.Type()) {
		return NotSupportedError{Type: targetValue.Type()}
	}

	// build the setter for the targets type
	setter, err := d.setterOf(typeSet{}, targetValue.Type())
	if err != nil {
		return err
	}

	return setter(NewSession(opts), "", targetValue)
}

func (d *Decoder) setterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if cached, ok := d.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if _, ok := inConstruction[ty]; ok {
		// a recursive type re-enters the same flat namespace on every
		// nesting level and could never exhaust finite options
		return nil, fmt.Errorf("recursive type %q: %w", ty, NotSupportedError{Type: ty})
	}

	inConstruction[ty] = struct{}{}

	setter, err := d.makeSetterOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	d.setterCache.Store(ty, setter)

	return setter, nil
}

func (d *Decoder) makeSetterOf(inConstruction typeSet, ty reflect.Type) (setter, error) {
	if reflect.PointerTo(ty).Implements(tyEnum) {
		return makeSetEnum(ty)
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	if ty == tySize {
		return setSize, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.String:
		return setString, nil

	case reflect.Int:
		return makeSetInt[int](), nil

	case reflect.Int8:
		return makeSetInt[int8](), nil

	case reflect.Int16:
		return makeSetInt[int16](), nil

	case reflect.Int32:
		return makeSetInt[int32](), nil

	case reflect.Int64:
		return makeSetInt[int64](), nil

	case reflect.Uint:
		return makeSetUint[uint](), nil

	case reflect.Uint8:
		return makeSetUint[uint8](), nil

	case reflect.Uint16:
		return makeSetUint[uint16](), nil

	case reflect.Uint32:
		return makeSetUint[uint32](), nil

	case reflect.Uint64:
		return makeSetUint[uint64](), nil

	case reflect.Pointer:
		return d.makeSetPointer(inConstruction, ty)

	case reflect.Struct:
		return d.makeSetStruct(inConstruction, ty)

	case reflect.Slice:
		return d.makeSetSlice(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

func (d *Decoder) makeSetStruct(inConstruction typeSet, ty reflect.Type) (setter, error) {
	var setters []setter

	structTag := d.structTag
	if structTag == "" {
		structTag = "opt"
	}

	fields := fieldsToDecode(ty, structTag)

	for _, field := range fields {
		de, err := d.setterOf(inConstruction, field.Type)
		if err != nil {
			return nil, fmt.Errorf("setter for field %q: %w", field.Name, err)
		}

		setters = append(setters, de)
	}

	setter := func(sess *Session, _ string, target reflect.Value) error {
		sess.BeginStruct()

		for idx, field := range fields {
			fieldValue := target.FieldByIndex(field.Index)
			if err := setters[idx](sess, field.Name, fieldValue); err != nil {
				return fmt.Errorf("set field %q on %q: %w", field.Name, target.Type(), err)
			}
		}

		return sess.EndStruct()
	}

	return setter, nil
}

func (d *Decoder) makeSetPointer(inConstruction typeSet, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := d.setterOf(inConstruction, pointeeType)
	if err != nil {
		return nil, err
	}

	// A nested struct decodes its members from the shared flat namespace,
	// so its own field name never occurs in the options. Allocate it
	// unconditionally instead of probing for the name.
	if structPointee(pointeeType) {
		setter := func(sess *Session, name string, target reflect.Value) error {
			newValue := reflect.New(pointeeType)
			if err := pointeeSetter(sess, name, newValue.Elem()); err != nil {
				return err
			}

			target.Set(newValue)

			return nil
		}

		return setter, nil
	}

	setter := func(sess *Session, name string, target reflect.Value) error {
		// an absent optional field stays nil
		if !sess.HasField(name) {
			return nil
		}

		newValue := reflect.New(pointeeType)
		if err := pointeeSetter(sess, name, newValue.Elem()); err != nil {
			return err
		}

		// set pointer to the new value
		target.Set(newValue)

		return nil
	}

	return setter, nil
}

func (d *Decoder) makeSetSlice(inConstruction typeSet, ty reflect.Type) (setter, error) {
	elementType := ty.Elem()

	// List elements decode one occurrence at a time through the scalar
	// operations; a structured element type has no occurrence of its own.
	if !scalarType(elementType) {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, NotSupportedError{Type: elementType})
	}

	elementSetter, err := d.setterOf(inConstruction, elementType)
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// a empty element
	placeholderValue := reflect.New(elementType).Elem()

	setter := func(sess *Session, name string, target reflect.Value) error {
		if err := sess.BeginList(name); err != nil {
			return err
		}

		for sess.NextElement() {
			// add an empty element to grow the list
			target.Set(reflect.Append(target, placeholderValue))

			idx := target.Len() - 1
			elementValue := target.Index(idx)
			if err := elementSetter(sess, name, elementValue); err != nil {
				sess.EndList()
				return fmt.Errorf("set element idx=%d: %w", idx, err)
			}
		}

		sess.EndList()

		return nil
	}

	return setter, nil
}

// structPointee reports whether ty decodes field-wise rather than through
// one scalar operation.
func structPointee(ty reflect.Type) bool {
	return ty.Kind() == reflect.Struct &&
		!reflect.PointerTo(ty).Implements(tyEnum) &&
		!reflect.PointerTo(ty).Implements(tyTextUnmarshaler)
}

// scalarType reports whether ty decodes through a single scalar operation
// and may therefore be a list element.
func scalarType(ty reflect.Type) bool {
	if reflect.PointerTo(ty).Implements(tyEnum) ||
		reflect.PointerTo(ty).Implements(tyTextUnmarshaler) ||
		ty == tySize {
		return true
	}

	switch ty.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true

	default:
		return false
	}
}

func setBool(sess *Session, name string, target reflect.Value) error {
	boolValue, err := sess.DecodeBool(name)
	if err != nil {
		return err
	}

	target.SetBool(boolValue)
	return nil
}

func setString(sess *Session, name string, target reflect.Value) error {
	stringValue, err := sess.DecodeString(name)
	if err != nil {
		return err
	}

	target.SetString(stringValue)

	return nil
}

func setSize(sess *Session, name string, target reflect.Value) error {
	sizeValue, err := sess.DecodeSize(name)
	if err != nil {
		return err
	}

	target.SetUint(uint64(sizeValue))
	return nil
}

func setTextUnmarshaler(sess *Session, name string, target reflect.Value) error {
	text, err := sess.DecodeString(name)
	if err != nil {
		return err
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	return m.UnmarshalText([]byte(text))
}

func makeSetEnum(ty reflect.Type) (setter, error) {
	if ty.Kind() != reflect.String {
		return nil, NotSupportedError{Type: ty}
	}

	tags := reflect.New(ty).Interface().(Enum).EnumTags()

	setter := func(sess *Session, name string, target reflect.Value) error {
		tagValue, err := sess.DecodeEnum(name, tags)
		if err != nil {
			return err
		}

		target.SetString(tagValue)
		return nil
	}

	return setter, nil
}

// makeSetInt builds the setter for the signed integer type T. Values
// decode as int64 and narrow to T afterwards, so a list field of a narrow
// type still supports range expansion.
func makeSetInt[T constraints.Signed]() setter {
	bits := int(unsafe.Sizeof(T(0)) * 8)
	minValue := int64(-1) << (bits - 1)
	maxValue := -(minValue + 1)
	expected := fmt.Sprintf("an int%d value", bits)

	return func(sess *Session, name string, target reflect.Value) error {
		intValue, err := sess.DecodeInt64(name)
		if err != nil {
			return err
		}

		if intValue < minValue || intValue > maxValue {
			return InvalidParameterValueError{Name: name, Expected: expected}
		}

		target.SetInt(intValue)
		return nil
	}
}

func makeSetUint[T constraints.Unsigned]() setter {
	bits := int(unsafe.Sizeof(T(0)) * 8)
	maxValue := uint64(1)<<bits - 1
	expected := fmt.Sprintf("a uint%d value", bits)

	return func(sess *Session, name string, target reflect.Value) error {
		uintValue, err := sess.DecodeUint64(name)
		if err != nil {
			return err
		}

		if uintValue > maxValue {
			return InvalidParameterValueError{Name: name, Expected: expected}
		}

		target.SetUint(uintValue)
		return nil
	}
}
