package main

import (
	"github.com/onyb/satstack/cmd/lss/cmd"
)

func main() {
	cmd.Execute()
}
