package main

import (
	"fmt"
	"os"

	"github.com/zeu5/smartcab-rl/benchmarks"
)

// main entry point to the smartcab experiments
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
