package main

import "github.com/LourdesGrandotti/Pomodoro-App-Informatorio/cmd/pomodoro/root"

func main() {
	root.Execute()
}
