// Package main is the entry point for the scoutstyles CLI tool, which
// computes league-relative playing-style scores and finds look-alike
// players and squads.
package main

import "github.com/lvdb/scoutstyles/cmd"

func main() {
	cmd.Execute()
}
