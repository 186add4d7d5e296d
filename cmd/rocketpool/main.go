package main

import (
	"os"

	"github.com/rocketpool/rocketpool-web/cmd/rocketpool/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
