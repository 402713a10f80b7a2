package main

import "esim-catalog/cmd"

func main() {
	cmd.Execute()
}
