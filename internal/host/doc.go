// Package host runs build passes: it discovers source files under the
// watched paths, hands them to the registered compiler plugins and collects
// the process handles the plugins return.
package host
