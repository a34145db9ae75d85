package main

import "dcytdl/cmd"

func main() {
	cmd.Execute()
}
