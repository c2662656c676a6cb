package main

import "github.com/reelnotes/reelnotes/cmd/moviectl/cmd"

func main() {
	cmd.Execute()
}
