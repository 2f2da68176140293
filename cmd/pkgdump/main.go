// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

// Command pkgdump prints metadata fields of pacman package archives.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
)

// Main is canceled on interrupt.
var Main, CancelMain = context.WithCancel(context.Background())

// FlagOptions holds global options.
var FlagOptions struct{}

// FlagParser registers sub-commands from cmd_*.go files.
var FlagParser = flags.NewParser(&FlagOptions, flags.Default)

func init() {
	log.SetFlags(0)
	log.SetPrefix("pkgdump: ")
}

func main() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		CancelMain()
	}()

	_, err := FlagParser.Parse()
	CancelMain()
	if err == nil {
		return
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
		return
	}

	os.Exit(1)
}
