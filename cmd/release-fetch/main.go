package main

import "github.com/ollielynas/reanimator-site/cmd/release-fetch/cmd"

func main() {
	cmd.Execute()
}
