package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/edumentor/pkg/usecase/export"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type exportConfig struct {
	format string
	output string
}

func exportFlags(ec *exportConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Export format (json, yaml)",
			Value:       string(export.FormatJSON),
			Destination: &ec.format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory; '-' writes to stdout",
			Value:       ".",
			Destination: &ec.output,
		},
	}
}

// write exports v as a dated file in the output directory, or to stdout
func (ec *exportConfig) write(ctx context.Context, c *cli.Command, collection string, v any) error {
	format, err := export.ParseFormat(ec.format)
	if err != nil {
		return err
	}

	if ec.output == "-" {
		return export.Write(c.Root().Writer, format, v)
	}

	path := filepath.Join(ec.output, export.FileName(collection, format, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create export file", goerr.V("path", path))
	}

	if err := writeAndClose(f, format, v); err != nil {
		return goerr.Wrap(err, "failed to write export file", goerr.V("path", path))
	}

	logging.From(ctx).Debug("exported", "collection", collection, "path", path)
	fmt.Fprintf(c.Root().Writer, "Exported %s to %s\n", collection, path)
	return nil
}

// writeAndClose writes v to wc and reports a failed close, which is where
// buffered data of a file is flushed
func writeAndClose(wc io.WriteCloser, format export.Format, v any) error {
	if err := export.Write(wc, format, v); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return goerr.Wrap(err, "failed to close export output")
	}
	return nil
}
