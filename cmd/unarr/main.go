package main

import (
	"os"

	"github.com/htngo/unarr/internal/cmd"
	"github.com/jessevdk/go-flags"
)

var opts struct {
	List    cmd.List    `command:"list" alias:"l" description:"list the entries of archives"`
	Extract cmd.Extract `command:"extract" alias:"x" description:"extract the entries of archives"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)

	if _, err := p.Parse(); err != nil && !flags.WroteHelp(err) {
		os.Exit(1)
	}
}
