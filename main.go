package main

import "github.com/jsphweid/harmonline/cmd"

func main() {
	cmd.Execute()
}
