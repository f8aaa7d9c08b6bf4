// Command phonebook serves the phonebook web form, runs the terminal data
// app, and manages the contacts database.
package main

import "github.com/mesh-intelligence/phonebook/internal/cli"

func main() {
	cli.Execute()
}
