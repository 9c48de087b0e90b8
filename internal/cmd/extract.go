package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/htngo/unarr"
	"github.com/jessevdk/go-flags"
	"github.com/schollz/progressbar/v3"
)

type Extract struct {
	SourceOptions
	Directory flags.Filename `short:"C" long:"directory" description:"extract into this directory" default:"."`
	Args      struct {
		Files []flags.Filename `positional-arg-name:"file" description:"local files or s3:// URIs to extract" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Extract) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	success := 0
	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		logger := newLogger(i, n, string(file))
		logger.Printf("start extracting")

		if err := c.extract(ctx, string(file), logger); err == nil {
			logger.Printf("done extracting")
			success++
			continue
		} else if errors.Is(err, context.Canceled) {
			break
		} else {
			logger.Printf("extract error: %v", err)
		}
	}

	log.Printf("successfully extracted %d/%d archives", success, n)
	return nil
}

func (c *Extract) extract(ctx context.Context, name string, logger *log.Logger) error {
	a, err := c.open(ctx, name, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	// tally up the total uncompressed size first for better progress report;
	// the second iterator below restarts catalog traversal on its own.
	var total int64
	for e := range a.Entries() {
		total += e.Size
	}

	bar := progressbar.DefaultBytes(total, fmt.Sprintf(`extracting "%s"`, filepath.Base(name)))
	defer bar.Close()

	for e := range a.Entries() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err = c.extractEntry(a, e, bar); err != nil {
			return err
		}
	}

	return nil
}

func (c *Extract) extractEntry(a *unarr.Archive, e unarr.Entry, bar *progressbar.ProgressBar) error {
	// entry names come straight from the archive; keep them inside the output
	// directory.
	rel := filepath.FromSlash(e.Name)
	if !filepath.IsLocal(rel) {
		return fmt.Errorf(`entry "%s" escapes the output directory`, e.Name)
	}
	path := filepath.Join(string(c.Directory), rel)

	if strings.HasSuffix(e.Name, "/") {
		return os.MkdirAll(path, 0755)
	}

	r, err := a.ReaderFor(e)
	if err != nil {
		return err
	}
	defer r.Close()

	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf(`create path to file "%s" error: %w`, path, err)
	}

	w, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return fmt.Errorf(`create file "%s" error: %w`, path, err)
	}

	_, err = io.Copy(w, io.TeeReader(r, bar))
	_ = w.Close()
	if err != nil {
		return fmt.Errorf(`write to file "%s" error: %w`, path, err)
	}

	if !e.ModTime.IsZero() {
		if err = os.Chtimes(path, time.Time{}, e.ModTime); err != nil {
			return fmt.Errorf(`change mod time of "%s" error: %w`, path, err)
		}
	}

	return nil
}
