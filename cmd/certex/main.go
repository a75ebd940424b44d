package main

import (
	"github.com/MeKo-Tech/certex/cmd/certex/cmd"
)

func main() {
	cmd.Execute()
}
