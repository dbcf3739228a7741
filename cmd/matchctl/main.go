// cmd/matchctl/main.go
// Offline runner for the matching engine over a JSON fixtures file

package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
