package main

import "github.com/mcoot/mtlobby/internal/cli"

func main() {
	cli.Execute()
}
