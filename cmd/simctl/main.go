package main

import "semester/cmd/simctl/root"

func main() {
	root.Execute()
}
