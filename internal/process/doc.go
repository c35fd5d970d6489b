// Package process runs external commands on behalf of compiler plugins.
//
// A Command is a pure description of what to run. A Runner executes one
// Command to completion. A Dispatcher launches Commands without blocking the
// caller and hands back a Handle per launch, so results are always
// observable even when a caller chooses to ignore them.
package process
