package main

import "terminal-commons/internal/cli"

func main() {
	cli.Execute()
}
