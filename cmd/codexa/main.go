// Package main is the single-binary entrypoint for Codexa.
// One binary serves the API, the progression engine, and the CLI views.
package main

import "github.com/codexa-learn/codexa/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
