package optdec

import (
	"fmt"
	"strings"
)

// Parse tokenizes a textual option string into an [Options] set.
//
// Entries are separated by commas. Each entry is either "name=value" or a
// bare "name" (a valueless flag). Inside a value a doubled comma ",," stands
// for one literal comma; everything else, including further "=" characters,
// is taken verbatim. An "id=value" entry is hoisted into [Options.ID] and
// does not become a regular occurrence.
//
//	Parse("id=eth0,mac=52:54:00:12:34:56,vectors=1-3,disable-tx")
func Parse(s string) (*Options, error) {
	return parseOpts(s, "")
}

// ParseImplied is [Parse] with an implied name for the leading entry: when
// the first entry carries no "=" before its terminating comma, it is read as
// the value of key. This serves the common "type,rest..." surface, e.g.
//
//	ParseImplied("virtio-net,id=n0,vectors=4", "driver")
//
// which is equivalent to Parse("driver=virtio-net,id=n0,vectors=4").
func ParseImplied(s, key string) (*Options, error) {
	return parseOpts(s, key)
}

func parseOpts(s, impliedKey string) (*Options, error) {
	opts := &Options{}
	pos := 0

	if impliedKey != "" && impliedFirst(s) {
		value, next := scanValue(s, 0)
		if err := opts.take(impliedKey, value, true); err != nil {
			return nil, err
		}
		pos = next
	}

	for pos < len(s) {
		start := pos
		for pos < len(s) && s[pos] != ',' && s[pos] != '=' {
			pos++
		}
		name := s[start:pos]

		hasValue := pos < len(s) && s[pos] == '='
		var value string
		if hasValue {
			value, pos = scanValue(s, pos+1)
		} else if pos < len(s) {
			pos++ // consume the separating comma
		}

		if name == "" {
			return nil, fmt.Errorf("empty option name at byte %d", start)
		}
		if err := opts.take(name, value, hasValue); err != nil {
			return nil, err
		}
	}

	return opts, nil
}

// take routes one parsed entry: the identifier into Options.ID, everything
// else into the occurrence list.
func (o *Options) take(name, value string, hasValue bool) error {
	if name != "id" {
		if hasValue {
			o.Add(name, value)
		} else {
			o.AddFlag(name)
		}
		return nil
	}
	if !hasValue {
		return fmt.Errorf(`option "id" requires a value`)
	}
	if o.ID != "" {
		return fmt.Errorf(`duplicate option "id"`)
	}
	o.ID = value
	return nil
}

// impliedFirst reports whether the leading entry has no "=" before the first
// comma, i.e. whether it should be read as the implied key's value.
func impliedFirst(s string) bool {
	comma := strings.IndexByte(s, ',')
	eq := strings.IndexByte(s, '=')
	if eq == -1 {
		return s != ""
	}
	return comma != -1 && comma < eq
}

// scanValue reads a value starting at pos: it ends at the first single comma
// (consumed) or at the end of input, and turns every ",," into one ",".
func scanValue(s string, pos int) (string, int) {
	var b strings.Builder
	for pos < len(s) {
		c := s[pos]
		if c == ',' {
			if pos+1 < len(s) && s[pos+1] == ',' {
				b.WriteByte(',')
				pos += 2
				continue
			}
			pos++
			break
		}
		b.WriteByte(c)
		pos++
	}
	return b.String(), pos
}
