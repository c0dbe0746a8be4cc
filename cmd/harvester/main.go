package main

import "github.com/eventlt/harvester/internal/cli"

func main() {
	cli.Execute()
}
