package main

import "github.com/saadk408/plancheck/cmd"

func main() {
	cmd.Execute()
}
