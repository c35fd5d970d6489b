// Package watch reruns build passes when watched sources change, and
// optionally on a fixed interval.
package watch
