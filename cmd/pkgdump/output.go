// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkginfo

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputOptions selects record encoding.
type OutputOptions struct {
	Format string `long:"format" short:"f" choice:"json" choice:"yaml" default:"json" description:"Output encoding."`
}

// write encodes v to w in the selected format.
func (o OutputOptions) write(w io.Writer, v any) error {
	switch o.Format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", o.Format)
	}
}
