package main

import (
	"tabdock.dev/shell/internal/interfaces/cli"
)

func main() {
	cli.Execute()
}
