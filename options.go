package optdec

import "iter"

// Opt is a single raw occurrence of an option: a name and, unless the option
// appeared as a bare flag, a textual value. A name may repeat across
// occurrences; every repeat is kept as its own Opt.
type Opt struct {
	Name  string
	Value string

	// HasValue reports whether an explicit "=value" was present. Bare flags
	// ("disable-tx" instead of "disable-tx=on") carry HasValue false and an
	// empty Value.
	HasValue bool
}

// val returns the textual value, empty for valueless occurrences.
func (o Opt) val() string {
	if !o.HasValue {
		return ""
	}
	return o.Value
}

// Options is an ordered collection of raw option occurrences plus an optional
// identifier. It is the input to a decode [Session]; the session reads it but
// never modifies it, so one Options value can feed several sessions in turn.
//
// Build an Options either with [Parse] or programmatically with [Options.Add]
// and [Options.AddFlag].
type Options struct {
	// ID is the optional identifier of the option set. A non-empty ID is
	// decoded like a regular occurrence named "id"; because of that the name
	// "id" is reserved and cannot be added as an ordinary option.
	ID string

	opts []Opt
}

// Add appends an occurrence of name carrying an explicit value.
// The name "id" is reserved for the identifier; set [Options.ID] instead.
func (o *Options) Add(name, value string) {
	o.append(Opt{Name: name, Value: value, HasValue: true})
}

// AddFlag appends a valueless occurrence of name (a bare flag).
func (o *Options) AddFlag(name string) {
	o.append(Opt{Name: name})
}

func (o *Options) append(opt Opt) {
	if opt.Name == "id" {
		panic(`optdec: option name "id" is reserved, set Options.ID instead`)
	}
	o.opts = append(o.opts, opt)
}

// Len returns the number of occurrences, not counting the identifier.
func (o *Options) Len() int {
	return len(o.opts)
}

// All iterates the occurrences in insertion order. The identifier is not
// part of the sequence.
func (o *Options) All() iter.Seq[Opt] {
	return func(yield func(Opt) bool) {
		for _, opt := range o.opts {
			if !yield(opt) {
				return
			}
		}
	}
}
