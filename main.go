package main

import "github.com/frahmantamala/vehicle-permit/cmd"

func main() {
	cmd.Execute()
}
