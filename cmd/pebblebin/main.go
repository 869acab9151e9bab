package main

import "github.com/binlabs/pebblebin/cmd/pebblebin/cmd"

func main() {
	cmd.Execute()
}
