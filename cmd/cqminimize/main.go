// Command cqminimize computes the core of a conjunctive query.
//
// Usage: cqminimize <input query file> <output query file>
package main

import (
	"fmt"
	"os"

	"github.com/ryogrid/minibase-go/internal/log"
	"github.com/ryogrid/minibase-go/runtime"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: cqminimize <input query file> <output query file>")
		os.Exit(1)
	}

	if err := runtime.Minimize(os.Args[1], os.Args[2]); err != nil {
		log.Fatalf("%v", err)
	}
}
