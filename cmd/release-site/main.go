package main

import "github.com/ollielynas/reanimator-site/cmd/release-site/cmd"

func main() {
	cmd.Execute()
}
