package main

import "github.com/ogulcanaydogan/powerpulse/internal/cli"

func main() {
	cli.Execute()
}
