package main

import "github.com/lkarlslund/camwatch/cmd"

func main() {
	cmd.Execute()
}
