package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
)

type List struct {
	SourceOptions
	Args struct {
		Files []flags.Filename `positional-arg-name:"file" description:"local files or s3:// URIs to list" required:"yes"`
	} `positional-args:"yes"`
}

func (c *List) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		logger := newLogger(i, n, string(file))

		a, err := c.open(ctx, string(file), logger)
		if err != nil {
			logger.Printf("open error: %v", err)
			continue
		}

		logger.Printf("opened as %v", a.Format())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		count, total := 0, int64(0)
		for e := range a.Entries() {
			modTime := ""
			if !e.ModTime.IsZero() {
				modTime = e.ModTime.Format("2006-01-02 15:04")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.IBytes(uint64(e.Size)), modTime, e.Name)
			count, total = count+1, total+e.Size
		}
		_ = w.Flush()

		logger.Printf("%d entries, %s uncompressed", count, humanize.IBytes(uint64(total)))
		_ = a.Close()
	}

	return nil
}
