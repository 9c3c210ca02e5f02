package main

import "github.com/frahmantamala/travel-expense/cmd"

func main() {
	cmd.Execute()
}
