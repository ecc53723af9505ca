package main

import "github.com/ByLCY/dotmatrix/cmd"

func main() {
	cmd.Execute()
}
