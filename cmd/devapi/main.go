package main

import "github.com/reelnotes/reelnotes/cmd/devapi/cmd"

func main() {
	cmd.Execute()
}
