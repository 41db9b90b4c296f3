package main

import "yatube/internal/cli"

func main() {
	cli.Execute()
}
