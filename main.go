/*
	Copyright 2024 orbitarch
*/

package main

import "github.com/orbitarch/orbitarch-service-go/cmd"

func main() {
	cmd.Execute()
}
