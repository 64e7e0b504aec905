package main

import "github.com/will-rowe/mzmatch/cmd"

func main() {
	cmd.Execute()
}
