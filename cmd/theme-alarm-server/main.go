package main

import "github.com/oshokin/theme-alarm/cmd/theme-alarm-server/cmd"

func main() {
	cmd.Execute()
}
