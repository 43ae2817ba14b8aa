package main

import (
	"github.com/esign-demos/embedded-signing/app/internal/cli"
)

func main() {
	cli.Execute()
}
