package main

import "github.com/anoixa/picture-vault/cmd"

func main() {
	cmd.Execute()
}
