package main

// Exit codes
const (
	ExitError       = 1 // General error (invalid arguments, I/O failure)
	ExitConfigError = 2 // Configuration error (no site found, invalid pubsite.yml)
	ExitDataError   = 3 // Data error (malformed publications.json, invalid record)
)
