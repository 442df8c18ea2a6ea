// Package reorganizer applies the deep-clean layout migration to a project
// tree.
//
// A run quarantines the archive directory, removes clutter files from the
// root, scaffolds the target directories, merges and moves source folders,
// and finally rewrites literal import strings in candidate source files.
// Every step is best effort: failures are logged, recorded in the Summary,
// and never abort the run. Only a missing project root stops Run.
package reorganizer
