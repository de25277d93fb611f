package main

import (
	"context"
	"os"

	"github.com/ig-gor95/finsplit-sub001/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
