package main

import "github.com/smartshark27/movie-rating-checker/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
