package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gild-run/gild/pkg/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
