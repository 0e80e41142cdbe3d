package main

import "peer-feedback/cmd"

func main() {
	cmd.Execute()
}
