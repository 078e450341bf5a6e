package main

import (
	"os"
)

func main() {
	a := &app{}
	err := a.rootCmd().Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
