package zplprotocol

import (
	"fmt"
	"strconv"
)

// Command is a descriptor bound to a concrete parameter list. The
// descriptor is shared; the parameters belong to the command.
type Command struct {
	desc   *Descriptor
	params Params
}

// NewCommand creates a command from d with the given parameters.
func NewCommand(d *Descriptor, params ...any) *Command {
	return d.Instance(params)
}

func (*Command) entry() {}

// Descriptor returns the shared command definition.
func (c *Command) Descriptor() *Descriptor {
	return c.desc
}

// Params returns the command's parameter list for in-place edits.
func (c *Command) Params() *Params {
	return &c.params
}

// Set stores a parameter by index and returns c for chaining.
func (c *Command) Set(index int, value any) *Command {
	c.params.Set(index, value)
	return c
}

// SetName stores a parameter by name and returns c for chaining. Unknown
// names are ignored.
func (c *Command) SetName(name string, value any) *Command {
	c.params.SetName(name, value)
	return c
}

// Append adds a parameter after the last one and returns c for chaining.
func (c *Command) Append(value any) *Command {
	c.params.Append(value)
	return c
}

// Get returns a parameter by index.
func (c *Command) Get(index int) (string, bool) {
	return c.params.Get(index)
}

// GetName returns a parameter by name.
func (c *Command) GetName(name string) (string, bool) {
	return c.params.GetName(name)
}

// Missing returns the names of required parameters that are not set.
func (c *Command) Missing() []string {
	return c.desc.Missing(&c.params)
}

// Render returns the command as written with syntax.
func (c *Command) Render(syntax Syntax) string {
	syntax = syntax.normalized()
	return c.desc.Prefixed(syntax) + c.params.render(syntax.Delimiter, c.desc.fused)
}

// String returns the command as written with the default syntax.
func (c *Command) String() string {
	return c.Render(DefaultSyntax)
}

// GoString returns a debugging representation of the command.
func (c *Command) GoString() string {
	return fmt.Sprintf("<Command %s %s params=%q>", c.desc.name, c.desc.String(), c.params.Values())
}

// Clone returns a copy of c with its own parameter list and the same
// shared descriptor.
func (c *Command) Clone() *Command {
	return &Command{desc: c.desc, params: c.params.clone()}
}

// intParam returns the named parameter as an integer, falling back to the
// descriptor default.
func (c *Command) intParam(name string) (int, bool) {
	s, ok := c.params.GetName(name)
	if !ok || s == "" {
		s, ok = c.desc.Default(name)
		if !ok {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Command) intOrUnknown(name string) int {
	if n, ok := c.intParam(name); ok {
		return n
	}
	return Unknown
}

// Dump implements Entry. Commands that change the printer environment
// return the updated properties; the command itself is written in the
// environment it was given.
func (c *Command) Dump(opts RenderOptions) Dump {
	props := opts.Props
	text := c.Render(props.Syntax)
	if opts.Encode {
		text = EncodeText(text, props.CharSet)
	}
	d := Dump{Text: text, Bounds: UnknownBounds, Props: props}

	switch c.desc.token {
	case "CC", "CT", "CD":
		v, ok := c.params.Get(0)
		if !ok || len(v) != 1 {
			break
		}
		syntax := props.Syntax.normalized()
		switch c.desc.token {
		case "CC":
			syntax.FormatPrefix = v[0]
		case "CT":
			syntax.ControlPrefix = v[0]
		case "CD":
			syntax.Delimiter = v[0]
		}
		d.Props.Syntax = syntax
	case "CF":
		d.Props.Font = c.fontSize(props, "font", "height", "width")
	case "CI":
		if n, ok := c.intParam("encoding"); ok {
			d.Props.CharSet = CharSet(n)
		}
	case "LH":
		x, xok := c.intParam("x")
		y, yok := c.intParam("y")
		if xok {
			d.Props.Home.X = x
		}
		if yok {
			d.Props.Home.Y = y
		}
	case "FO", "FT":
		if x, ok := c.intParam("x"); ok {
			d.Bounds.X = props.Home.X + x
		}
		if y, ok := c.intParam("y"); ok {
			d.Bounds.Y = props.Home.Y + y
		}
	case "GB", "GE", "GD":
		d.Bounds.Width = c.intOrUnknown("width")
		d.Bounds.Height = c.intOrUnknown("height")
	case "GC":
		diameter := c.intOrUnknown("diameter")
		d.Bounds.Width, d.Bounds.Height = diameter, diameter
	case "GF":
		rowBytes, rok := c.intParam("bytes_per_row")
		total, tok := c.intParam("field_count")
		if rok && tok && rowBytes > 0 {
			d.Bounds.Width = rowBytes * 8
			d.Bounds.Height = total / rowBytes
		}
	}
	return d
}

// fontSize resolves the font described by the named parameters against
// the current environment. Missing dimensions are scaled from the font's
// nominal cell.
func (c *Command) fontSize(props Properties, nameParam, heightParam, widthParam string) FontSize {
	name, ok := c.params.GetName(nameParam)
	if !ok || name == "" {
		name = props.Font.Name
	}
	h, hok := c.intParam(heightParam)
	w, wok := c.intParam(widthParam)
	if !hok {
		h = Unknown
	}
	if !wok {
		w = Unknown
	}
	return ResolveFont(props.Density, name, h, w)
}
