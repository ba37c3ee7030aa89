package main

import "github.com/frahmantamala/hr-management/cmd"

func main() {
	cmd.Execute()
}
