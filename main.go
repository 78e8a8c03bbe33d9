package main

import (
	"os"

	"github.com/ngld/vklaunch/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
