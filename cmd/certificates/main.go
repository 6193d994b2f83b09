package main

import "github.com/grimpo6/helloasso-certificates/internal/cli"

func main() {
	cli.Execute()
}
