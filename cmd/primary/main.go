package main

import (
	"github.com/onflow/flow-primary/cmd/primary/cmd"
)

func main() {
	cmd.Execute()
}
