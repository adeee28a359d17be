package main

import "github.com/renatodap/day/cmd/day"

func main() {
	day.Execute()
}
