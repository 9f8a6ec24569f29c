package main

import "github.com/forPelevin/mdlv/internal/cli"

func main() {
	cli.Main()
}
