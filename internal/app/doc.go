// Package app contains the core launcher logic. It defines the main App
// struct, its configuration, and the linear launch pipeline, decoupled
// from any specific entrypoint like a CLI.
package app
