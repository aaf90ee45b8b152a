package main

import "github.com/saieshwardev-lab/UrbanEye/cmd"

func main() {
	cmd.Execute()
}
