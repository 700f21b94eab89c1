package main

import "scriptfetch/internal/cli"

func main() {
	cli.Execute()
}
