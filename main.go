package main

import "github.com/secinv/cpescan/cmd"

func main() {
	cmd.Execute()
}
