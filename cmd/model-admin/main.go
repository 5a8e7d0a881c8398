// Command model-admin manages emulator model artifacts in the configured
// store and inspects the registered identity types.
//
//	model-admin list [-prefix p]
//	model-admin put -key k -file f [-content-type t] [-bounds json]
//	model-admin types
//
// The store backend is selected through the COSMOCORE_MODEL_* environment
// variables.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmocore/internal/modelstore"
	"cosmocore/pkg/emulator"
	"cosmocore/pkg/identity"

	_ "cosmocore/pkg/cosmology" // register identity types
	_ "cosmocore/pkg/halos"     // register identity types
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	ctx := context.Background()
	var err error
	switch args[0] {
	case "list":
		err = runList(ctx, args[1:], stdout, stderr)
	case "put":
		err = runPut(ctx, args[1:], stdout, stderr)
	case "types":
		err = runTypes(stdout)
	default:
		usage(stderr)
		return 2
	}
	if err != nil {
		if err == flag.ErrHelp {
			return 2
		}
		fmt.Fprintf(stderr, "model-admin %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: model-admin <list|put|types> [flags]")
}

func runList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	prefix := fs.String("prefix", "", "only artifacts under this key prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	store, err := modelstore.Open(ctx)
	if err != nil {
		return err
	}
	artifacts, err := store.List(ctx, *prefix)
	if err != nil {
		return err
	}
	for _, art := range artifacts {
		fmt.Fprintf(stdout, "%s\t%d\t%s\n", art.Key, art.Size, art.Checksum)
	}
	return nil
}

func runPut(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(stderr)
	key := fs.String("key", "", "artifact key (required)")
	file := fs.String("file", "", "payload file (required)")
	contentType := fs.String("content-type", "application/octet-stream", "payload content type")
	bounds := fs.String("bounds", "", "trained bounds as JSON, e.g. {\"sigma8\":{\"min\":0.6,\"max\":1.0}}")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *key == "" || *file == "" {
		return fmt.Errorf("-key and -file are required")
	}
	opts := modelstore.PutOptions{ContentType: *contentType}
	if *bounds != "" {
		var ranges map[string]emulator.Range
		if err := json.Unmarshal([]byte(*bounds), &ranges); err != nil {
			return fmt.Errorf("parse bounds: %w", err)
		}
		if _, err := emulator.NewBounds(ranges); err != nil {
			return err
		}
		opts.Metadata = map[string]string{emulator.BoundsMetadataKey: *bounds}
	}
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	store, err := modelstore.Open(ctx)
	if err != nil {
		return err
	}
	art, err := store.Put(ctx, *key, f, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "stored %s (%d bytes, checksum %s)\n", art.Key, art.Size, art.Checksum)
	return nil
}

func runTypes(stdout io.Writer) error {
	names := identity.TypeNames()
	fmt.Fprintln(stdout, strings.Join(names, "\n"))
	return nil
}
