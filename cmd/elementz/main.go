package main

import (
	"os"

	"github.com/flux/elementz/cmd/elementz/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
