package main

import "boxscore/process/sanitize"

func main() {
	sanitize.Run()
}
