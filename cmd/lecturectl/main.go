package main

import "lecture-studio/internal/cli"

func main() {
	cli.Execute()
}
