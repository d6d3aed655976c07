package main

import "github.com/mbriand/rdvwatch/internal/cli"

func main() {
	cli.Execute()
}
