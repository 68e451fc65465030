// Command cqeval plans and evaluates a conjunctive query against a flat-file
// database.
//
// Usage: cqeval <database directory> <query file> <output file>
package main

import (
	"fmt"
	"os"

	"github.com/ryogrid/minibase-go/internal/log"
	"github.com/ryogrid/minibase-go/runtime"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: cqeval <database directory> <query file> <output file>")
		os.Exit(1)
	}

	if err := runtime.Evaluate(os.Args[1], os.Args[2], os.Args[3]); err != nil {
		log.Fatalf("%v", err)
	}
}
