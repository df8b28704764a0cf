// Package commands defines the mapsexplorer CLI.
//
// Commands
//
//   - (root)        Start the interactive explorer
//   - search QUERY  Print the places matching QUERY
//   - config init   Write the default configuration file
//   - config show   Print the effective configuration
//   - config path   Print the configuration file location
//
// # Implementation
//
// The root command resolves the configuration (file, environment, then
// flags) before any subcommand runs, so every handler shares the same
// settings. The interactive explorer logs to a file because the terminal
// belongs to the UI; the one-shot commands log to stderr.
package commands
