package main

import "github.com/jobsweep/jobsweep/cmd"

func main() {
	cmd.Execute()
}
