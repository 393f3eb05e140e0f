package optdec

import (
	"reflect"
	"strings"
)

type field struct {
	Name  string
	Type  reflect.Type
	Index []int
}

// fieldCandidate is one struct field competing for an option name.
type fieldCandidate struct {
	field    field
	depth    int
	explicit bool
}

// fieldsToDecode enumerates the fields of ty that take part in a decode,
// flattening embedded structs breadth-first under encoding/json's
// visibility rules: the shallowest field of a name wins, an explicit tag
// beats a plain field name at equal depth, and an unresolvable conflict
// drops the name without error. The result keeps the declaration order of
// the winners, which is also the order the decoder consumes options in.
func fieldsToDecode(ty reflect.Type, structTag string) []field {
	if ty.Kind() != reflect.Struct {
		panic("not a struct")
	}

	type level struct {
		ty     reflect.Type
		parent []int
	}

	byName := map[string][]fieldCandidate{}
	var names []string

	queue := []level{{ty: ty}}
	for depth := 0; len(queue) > 0; depth++ {
		var deeper []level

		for _, lvl := range queue {
			for i := range lvl.ty.NumField() {
				fi := lvl.ty.Field(i)
				if !fi.IsExported() {
					continue
				}

				name, explicit := nameOf(fi, structTag)
				if name == "" {
					continue
				}

				// clone the parent index so siblings do not append into
				// shared backing
				index := append(lvl.parent[:len(lvl.parent):len(lvl.parent)], fi.Index...)

				if fi.Anonymous && !explicit {
					// embedded fields of struct kind flatten into the next
					// level; any other embedded kind is not promoted
					if fi.Type.Kind() == reflect.Struct {
						deeper = append(deeper, level{ty: fi.Type, parent: index})
					}
					continue
				}

				if len(byName[name]) == 0 {
					names = append(names, name)
				}
				byName[name] = append(byName[name], fieldCandidate{
					field:    field{Name: name, Type: fi.Type, Index: index},
					depth:    depth,
					explicit: explicit,
				})
			}
		}

		queue = deeper
	}

	var fields []field
	for _, name := range names {
		if win, ok := resolveField(byName[name]); ok {
			fields = append(fields, win)
		}
	}
	return fields
}

// resolveField picks the winner among the candidates sharing one name.
// Candidates arrive in walk order, so the shallowest ones lead.
func resolveField(cands []fieldCandidate) (field, bool) {
	shallow := cands
	for i, c := range cands {
		if c.depth > cands[0].depth {
			shallow = cands[:i]
			break
		}
	}

	if len(shallow) == 1 {
		return shallow[0].field, true
	}

	var winner field
	explicit := 0
	for _, c := range shallow {
		if c.explicit {
			winner = c.field
			explicit++
		}
	}
	if explicit == 1 {
		return winner, true
	}

	// still ambiguous; the name is dropped without error, like
	// encoding/json drops it
	return field{}, false
}

// nameOf resolves the option name of a struct field from its tag. An empty
// name marks the field as skipped.
func nameOf(fi reflect.StructField, structTag string) (name string, explicit bool) {
	tag := fi.Tag.Get(structTag)

	switch tag {
	case "":
		return fi.Name, false
	case "-":
		return "", true
	}

	if alias, _, ok := strings.Cut(tag, ","); ok {
		if alias == "" {
			// tag carries only options, e.g. ",omitempty"
			return fi.Name, false
		}
		return alias, true
	}
	return tag, true
}
