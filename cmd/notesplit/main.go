package main

import "notesplit/cmd/notesplit/cmd"

func main() {
	cmd.Execute()
}
