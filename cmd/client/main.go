package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/awnumar/memguard"
	"github.com/fatih/color"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newCLI(os.Stdin, os.Stdout, os.Stderr).root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗")+" "+err.Error())
		memguard.SafeExit(1)
	}
	memguard.Purge()
}

func printBuildInfo(w io.Writer, info models.AppBuildInfo) {
	for _, f := range info.Fields() {
		fmt.Fprintf(w, "%s: %s\n", f.Name, f.Value)
	}
}
