// Package config defines the runtime configuration for the downmeets
// pipeline.
//
// Configuration is read from the environment exactly once, at process start,
// into an explicit Config struct that is passed into each component. This
// keeps the rest of the codebase free of os.Getenv calls and makes component
// behavior fully determined by their inputs.
package config
