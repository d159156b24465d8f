package zplprotocol

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// param is one slot of a parameter list. A slot with ok == false is absent.
type param struct {
	value string
	ok    bool
}

// Params is an ordered, sparse list of optional parameter values bound to a
// descriptor. Indexes past the end are padded with absent values on write.
//
// Rendering emits only the span up to the last present value, so trailing
// defaults disappear from the wire while an absent value before a present
// one is written as an empty field.
type Params struct {
	desc   *Descriptor
	values []param

	// gen is the number of the last edit (see nextEdit).
	gen uint64
}

// NewParams creates a parameter list bound to d with the given values.
func NewParams(d *Descriptor, values ...any) *Params {
	p := &Params{desc: d}
	for _, v := range values {
		p.Append(v)
	}
	return p
}

// Len returns the number of slots, present or absent.
func (p *Params) Len() int {
	return len(p.values)
}

// Set stores value at index, growing the list with absent values as needed.
// Negative indexes are ignored. A nil value (or nil pointer) clears the slot.
func (p *Params) Set(index int, value any) {
	if index < 0 {
		return
	}
	for len(p.values) <= index {
		p.values = append(p.values, param{})
	}
	s, ok := stringify(value)
	p.values[index] = param{value: s, ok: ok}
	p.gen = nextEdit()
}

// SetName stores value in the named parameter. Unknown names are ignored.
func (p *Params) SetName(name string, value any) {
	p.Set(p.desc.ParamIndex(name), value)
}

// Append adds value after the last slot.
func (p *Params) Append(value any) {
	s, ok := stringify(value)
	p.values = append(p.values, param{value: s, ok: ok})
	p.gen = nextEdit()
}

// Get returns the value at index and whether it is present.
func (p *Params) Get(index int) (string, bool) {
	if index < 0 || index >= len(p.values) {
		return "", false
	}
	v := p.values[index]
	return v.value, v.ok
}

// GetName returns the value of the named parameter and whether it is
// present. Unknown names report absent.
func (p *Params) GetName(name string) (string, bool) {
	return p.Get(p.desc.ParamIndex(name))
}

// Values returns the slots as strings, absent slots as "".
func (p *Params) Values() []string {
	out := make([]string, len(p.values))
	for i, v := range p.values {
		out[i] = v.value
	}
	return out
}

// lastValue returns the index of the last present value, or -1.
func (p *Params) lastValue() int {
	for i := len(p.values) - 1; i >= 0; i-- {
		if p.values[i].ok {
			return i
		}
	}
	return -1
}

// Render joins the values up to the last present one with delimiter.
func (p *Params) Render(delimiter byte) string {
	return p.render(delimiter, 0)
}

// render writes the first fused values back to back, then the rest
// separated by delimiter.
func (p *Params) render(delimiter byte, fused int) string {
	last := p.lastValue()
	if last < 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i <= last; i++ {
		if i > 0 && i >= fused {
			b.WriteByte(delimiter)
		}
		b.WriteString(p.values[i].value)
	}
	return b.String()
}

// String renders the values with the default delimiter.
func (p *Params) String() string {
	return p.Render(DefaultDelimiter)
}

func (p *Params) clone() Params {
	return Params{desc: p.desc, values: append([]param(nil), p.values...), gen: p.gen}
}

// stringify converts a parameter value to its wire text. The boolean result
// is false for absent values (nil and nil pointers).
func stringify(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case bool:
		if x {
			return "Y", true
		}
		return "N", true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return x.String(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(v), true
}
