package main

import "github.com/bibbank/mt799-service/internal/cli"

func main() {
	cli.Execute()
}
