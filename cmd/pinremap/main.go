package main

import "github.com/OpenTraceLab/pinremap/cmd/pinremap/cmd"

func main() {
	cmd.Execute()
}
