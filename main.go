package main

import "tunebridge/cmd"

func main() {
	cmd.Execute()
}
