package main

import "github.com/oshokin/theme-alarm/cmd/theme-alarm/cmd"

func main() {
	cmd.Execute()
}
