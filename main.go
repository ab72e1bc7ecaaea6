package main

import (
	"github.com/ingm4r/evcc-trmnl-integration/cmd"
)

func main() {
	cmd.Execute()
}
