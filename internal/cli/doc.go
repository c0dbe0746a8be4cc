// Package cli implements the harvester command-line interface.
//
// The root command runs the selected scrapers and persists their tables;
// the report subcommand summarizes previously written files. Configuration
// layers in fixed precedence: built-in defaults, then an optional YAML file,
// then HARVESTER_* environment variables, then explicit flags.
package cli
