package main

import (
	"context"
	"os"

	"github.com/0xalexb/gconfig/cmd/gconfctl/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
