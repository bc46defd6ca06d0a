// Package main provides the evaluator service and CLI.
//
// Usage:
//
//	evaluator [--config file] <command> [args]
//
// Commands:
//
//	serve    - run the HTTP API and the background evaluation workers
//	run      - evaluate one transcript file synchronously
//	version  - print the build version
//
// @title Speak Coach Evaluator API
// @version 1.0
// @description Deep evaluation of spoken-practice sessions: topic segmentation, voice metrics and per-topic coaching analysis.
// @host localhost:8080
// @BasePath /api/v1
package main

import (
	"fmt"
	"os"

	"speakcoach/evaluator/cmd/evaluator/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
