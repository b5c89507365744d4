// Command newsdesk is a terminal client for the news and fact-check chat
// server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
