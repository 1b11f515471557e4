package main

import "examscore/internal/cli"

func main() {
	cli.Execute()
}
