// Package errors provides the classified error type used across elmbrunch.
//
// A ClassifiedError carries a category (config, compiler, filesystem, ...), a
// severity and optional structured context. Errors are built with the fluent
// ErrorBuilder and presented to CLI users through CLIErrorAdapter, which also
// maps categories onto process exit codes.
//
//	err := errors.CompilerError("elm make failed").
//		WithContext("source", src).
//		WithCause(runErr).
//		Build()
package errors
