// Package storage reads and writes knowledge documents on disk.
//
// A knowledge document is a UTF-8 JSON array of objects. Loading validates
// the top-level shape; writing is atomic, replacing the target file via a
// temporary file and rename so a failure mid-write never corrupts it.
package storage
