package main

import "github.com/elchristog/marketing-funnels-gestor/internal/cli"

func main() {
	cli.Execute()
}
