package main

import "github.com/starkbot/starkbot/cmd"

func main() {
	cmd.Execute()
}
