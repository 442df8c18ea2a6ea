// Package main hosts the deepclean CLI.
//
// Running deepclean without a subcommand reorganizes the project rooted at the
// working directory (or --root) under an exclusive lock, journals every action,
// and prints the completion banner. The config and history subcommands cover
// configuration scaffolding and inspection of past runs.
package main
