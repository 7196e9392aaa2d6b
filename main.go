// Package main is the entry point for the ducktape CLI.
package main

import "ducktape.dev/pkg/ducktape/cmd"

func main() {
	cmd.Execute()
}
