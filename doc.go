// Package optdec decodes flat sets of textual name=value options, as produced
// by command lines or configuration files, into typed Go values. A name may
// occur more than once; repeated occurrences decode into slices, and a single
// occurrence of the form "lower-upper" expands into every integer of the
// closed interval. Every occurrence must be consumed by exactly one field:
// missing mandatory options, unparseable values and leftover unrecognized
// options are reported as distinct errors.
//
// The [Session] type is the low-level surface: a schema-aware caller opens a
// struct decode, queries field presence, walks repeated options and invokes
// the typed decode methods one field at a time. The [Decoder] builds that
// schema from a target struct via reflection, so most callers only need
//
//	opts, err := optdec.Parse("id=eth0,driver=virtio,vectors=1-3")
//	var dev Device
//	err = optdec.Unmarshal(opts, &dev)
package optdec
