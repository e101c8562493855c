package main

import "github.com/bornholm/effortcalc/internal/command"

func main() {
	command.Execute()
}
