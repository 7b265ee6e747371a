package main

import (
	"context"

	"github.com/saneql/saneql/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
