package main

import "github.com/tldr-it-stepankutaj/scaffkit/cmd/scaffkit"

func main() {
	scaffkit.Execute()
}
