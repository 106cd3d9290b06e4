// Package store provides row stores for stored telemetry.
//
// Memory and Badger both implement timeline.Store, so either can back a
// timeline.Resolver, and both list a channel's newest rows for the velocity
// service. Memory keeps rows in process; Badger persists them in a badger
// database shared between tables.
//
// Snapshots move stored rows between processes as a single file: a 32-byte
// header followed by a compressed msgpack payload whose xxhash64 checksum is
// recorded in the header. See WriteSnapshot and ReadSnapshot.
package store
