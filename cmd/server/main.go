package main

import "github.com/prairiegroup/storefront/cmd"

func main() {
	cmd.Execute()
}
