package main

import "github.com/example/wod-booker/cmd"

func main() {
	cmd.Execute()
}
