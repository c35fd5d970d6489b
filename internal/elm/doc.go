// Package elm implements the Elm compiler plugin. The per-file hook is a
// no-op; the aggregate hook launches one `elm make` per configured main
// module and returns a handle for each launch without waiting.
package elm
