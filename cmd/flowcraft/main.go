package main

import "flowcraft/cmd/flowcraft/commands"

func main() {
	commands.Execute()
}
