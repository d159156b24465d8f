package zplprotocol

import (
	"fmt"
	"slices"
)

// Namespace selects which prefix character a command is written with.
type Namespace int

const (
	// Format commands use the format prefix (^ by default).
	Format Namespace = iota
	// Control commands use the control prefix (~ by default).
	Control
)

// String returns the namespace name.
func (n Namespace) String() string {
	switch n {
	case Format:
		return "format"
	case Control:
		return "control"
	default:
		return fmt.Sprintf("Namespace(%d)", int(n))
	}
}

// NotFound is returned by ParamIndex for unknown parameter names.
const NotFound = -1

// DescriptorSpec is the definition handed to NewDescriptor.
type DescriptorSpec struct {
	Name        string    // Symbolic name, e.g. FIELD_ORIGIN
	Token       string    // Mnemonic without prefix, e.g. FO
	Namespace   Namespace // Format or Control
	Description string
	Params      []string // Ordered, distinct parameter names
	Defaults    []string // Ordered defaults; trailing defaults may be omitted
	Required    int      // Number of leading parameters that must be present
	Response    bool     // The printer answers this command
	Verbatim    bool     // The whole argument text is a single parameter
	Fused       int      // Leading parameters written without delimiters
}

// Descriptor is the immutable definition of one ZPL command. Descriptors
// are created once, kept in the catalog, and shared by every Command built
// from them.
type Descriptor struct {
	name        string
	token       string
	namespace   Namespace
	description string
	params      []string
	defaults    []string
	required    int
	response    bool
	verbatim    bool
	fused       int
	index       map[string]int
}

// NewDescriptor creates a descriptor from spec. The slices in spec are
// copied, so later changes to them do not leak into the descriptor.
func NewDescriptor(spec DescriptorSpec) *Descriptor {
	d := &Descriptor{
		name:        spec.Name,
		token:       spec.Token,
		namespace:   spec.Namespace,
		description: spec.Description,
		params:      slices.Clone(spec.Params),
		defaults:    slices.Clone(spec.Defaults),
		required:    spec.Required,
		response:    spec.Response,
		verbatim:    spec.Verbatim,
		fused:       spec.Fused,
		index:       make(map[string]int, len(spec.Params)),
	}
	for i, p := range d.params {
		if _, dup := d.index[p]; !dup {
			d.index[p] = i
		}
	}
	return d
}

// Name returns the symbolic name of the command.
func (d *Descriptor) Name() string { return d.name }

// Token returns the command mnemonic without its prefix.
func (d *Descriptor) Token() string { return d.token }

// Namespace returns the prefix namespace of the command.
func (d *Descriptor) Namespace() Namespace { return d.namespace }

// Description returns the human description of the command.
func (d *Descriptor) Description() string { return d.description }

// Params returns a copy of the ordered parameter names.
func (d *Descriptor) Params() []string { return slices.Clone(d.params) }

// Defaults returns a copy of the ordered default values.
func (d *Descriptor) Defaults() []string { return slices.Clone(d.defaults) }

// Required returns the number of leading parameters that must be present.
func (d *Descriptor) Required() int { return d.required }

// Response reports whether the printer replies to this command.
func (d *Descriptor) Response() bool { return d.response }

// Verbatim reports whether the argument text is a single parameter.
func (d *Descriptor) Verbatim() bool { return d.verbatim }

// ParamIndex returns the index of the named parameter, or NotFound.
func (d *Descriptor) ParamIndex(name string) int {
	if d == nil || name == "" {
		return NotFound
	}
	if i, ok := d.index[name]; ok {
		return i
	}
	return NotFound
}

// Default returns the default value of the named parameter, if one is
// defined.
func (d *Descriptor) Default(name string) (string, bool) {
	i := d.ParamIndex(name)
	if i == NotFound || i >= len(d.defaults) {
		return "", false
	}
	return d.defaults[i], true
}

// Prefixed returns the command as written with syntax, without parameters.
func (d *Descriptor) Prefixed(syntax Syntax) string {
	syntax = syntax.normalized()
	return string(syntax.Prefix(d.namespace)) + d.token
}

// String returns the command as written with the default syntax.
func (d *Descriptor) String() string {
	return d.Prefixed(DefaultSyntax)
}

// Call creates a new Command bound to d. A single []any argument is
// unpacked, so d.Call(x, y) and d.Call([]any{x, y}) are equivalent.
func (d *Descriptor) Call(args ...any) *Command {
	if len(args) == 1 {
		if list, ok := args[0].([]any); ok {
			args = list
		}
	}
	return d.Instance(args)
}

// Instance creates a new Command bound to d with the given parameters.
func (d *Descriptor) Instance(args []any) *Command {
	c := &Command{desc: d, params: Params{desc: d}}
	for _, a := range args {
		c.params.Append(a)
	}
	return c
}

// Missing returns the names of required parameters that are absent from p.
// Required parameters without a name are reported by index.
func (d *Descriptor) Missing(p *Params) []string {
	var missing []string
	for i := 0; i < d.required; i++ {
		if _, ok := p.Get(i); ok {
			continue
		}
		if i < len(d.params) {
			missing = append(missing, d.params[i])
		} else {
			missing = append(missing, fmt.Sprintf("#%d", i))
		}
	}
	return missing
}
