package main

import "github.com/Another0Noob/fridge-recipes/cmd"

func main() {
	cmd.Execute()
}
