package main

import "github.com/andresmejia3/labelguard/cmd"

func main() {
	cmd.Execute()
}
