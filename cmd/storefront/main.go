package main

import "github.com/RoyceAzure/lab/storefront/internal/cmd"

func main() {
	cmd.Execute()
}
