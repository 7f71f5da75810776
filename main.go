package main

import "websession/cmd"

func main() {
	cmd.Execute()
}
