// Package main is the entry point for the ledgerctl maintenance tool.
package main

import "github.com/expense-tracker/backend/internal/cli"

func main() {
	cli.Execute()
}
