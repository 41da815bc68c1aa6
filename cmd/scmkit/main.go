package main

import (
	"github.com/scmkit/scmkit/internal/cmd"
)

func main() {
	cmd.Execute()
}
