package main

import "imagefetch/internal/cli"

func main() {
	cli.Execute()
}
