package main

import "github.com/arnabc13/new-kolam/cmd"

func main() {
	cmd.Execute()
}
