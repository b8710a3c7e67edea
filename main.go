package main

import (
	"os"

	"github.com/rpupo63/tagblog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
