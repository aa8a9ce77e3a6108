// Package parsers provides implementations of the DocumentParser
// interface for the supported document formats, plus the registry that
// dispatches files to them by extension.
//
// Parsers are registered with the Registry at startup.
package parsers
