// Package file provides file-based configuration and prompt storage:
// settings as a TOML file and prompts as user-editable text files.
package file
