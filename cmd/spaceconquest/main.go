package main

import "github.com/andrescamacho/spaceconquest-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
