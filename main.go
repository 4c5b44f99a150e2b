// Package main is the entry point for the pubgcoach CLI tool, which analyses
// PUBG match telemetry for a squad and turns it into scores and coaching tips.
package main

import "github.com/pable/go-pubg-coach/cmd"

func main() {
	cmd.Execute()
}
