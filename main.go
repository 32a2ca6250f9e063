package main

import "github.com/gnames/sp2tax/cmd"

func main() {
	cmd.Execute()
}
