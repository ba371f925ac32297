package main

import "github.com/alexiusacademia/gogirder/cmd"

func main() {
	cmd.Execute()
}
