package main

import "github.com/devsjc-forks/beets-ytdlp/cmd"

func main() {
	cmd.Execute()
}
