package main

import "github.com/pfrederiksen/election-dates/internal/cli"

func main() {
	cli.Execute()
}
