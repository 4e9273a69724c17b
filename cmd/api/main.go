package main

import (
	"github.com/raffihq/recipe-api/internal/cli"
)

func main() {
	cli.Execute()
}
