package main

import (
	"os"

	"github.com/yisrose35/daily-camp-schedular-sub006/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
