package main

import "github.com/wanslu/storefront/cmd"

func main() {
	cmd.Execute()
}
