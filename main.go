package main

import "github.com/platoro/foodgram/cmd"

func main() {
	cmd.Execute()
}
