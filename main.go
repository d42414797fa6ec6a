package main

import "github.com/tanq16/bgfetch/cmd"

func main() {
	cmd.Execute()
}
