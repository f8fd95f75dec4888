package main

import cmd "github.com/joelsnl/noveldl/cmd/noveldl"

func main() {
	cmd.Execute()
}
