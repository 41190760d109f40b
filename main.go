package main

import "studyshare/cmd"

func main() {
	cmd.Run()
}
