// Package main is the entry point for the shortdrama application.
package main

import (
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/cmd"
	"github.com/shortdrama-cli/shortdrama/config"
	"github.com/shortdrama-cli/shortdrama/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
