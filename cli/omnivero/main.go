package main

import (
	"os"

	omniverocmder "github.com/omniverolabs/omnivero/cmd/omnivero"
)

func main() {
	cmd := omniverocmder.NewOmniveroCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
