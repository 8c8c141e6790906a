package main

import "github.com/flowsmith/flowsmith/cmd"

func main() {
	cmd.Execute()
}
