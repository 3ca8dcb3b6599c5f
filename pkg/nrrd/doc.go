// Package nrrd reads and writes NRRD raster files.
//
// A file is a text header followed, in the same file or in one or more
// detached data files, by a raw, gzip or bzip2 payload. Headers are parsed
// into a Header and rendered back in canonical field order; payloads are
// read as bytes or decoded to a numeric element type.
package nrrd
