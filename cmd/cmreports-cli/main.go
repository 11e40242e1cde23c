package main

import (
	_ "time/tzdata"

	"cmreports/cmd/cmreports-cli/cmd"
)

func main() {
	cmd.Execute()
}
