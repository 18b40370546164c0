// Package config loads the optional bmicount YAML configuration file.
//
// Missing fields are filled with defaults (the overweight band [25, 29.9],
// log level "info"). The decoded Config is checked against the CUE schema in
// schema.cue before it is returned.
package config
