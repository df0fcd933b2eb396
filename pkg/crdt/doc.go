// Package crdt is the external-interface facade (spec.md §6): binary
// encoding and decoding for the three CRDT types. Each type's
// behaviour and merge algebra live in pkg/orswot, pkg/odflag and
// pkg/crdtmap; this package only knows how to turn their state into
// bytes and back, using the same wire stack the teacher pulled in
// transitively via memberlist (hashicorp/go-msgpack, google/btree) but
// never called directly.
package crdt
