package main

import "grocerystore/cmd"

func main() {
	cmd.Execute()
}
