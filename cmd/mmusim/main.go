// Command mmusim simulates the memory management unit of a small computer
// that runs a reference trace with demand paging.
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

func main() {
	cfg := defaultConfig()

	err := loadEnvFile(".env")
	if err == nil {
		err = cfg.applyEnv(os.LookupEnv)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		atexit.Exit(1)
	}

	err = newRootCommand(&cfg, os.Stdin, os.Stdout).Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
