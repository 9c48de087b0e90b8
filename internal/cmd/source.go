package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/htngo/unarr"
	"github.com/htngo/unarr/charset"
	"github.com/htngo/unarr/s3stream"
)

// SourceOptions are the flags shared by every command that opens an archive,
// from a local file or from an s3://bucket/key URI.
type SourceOptions struct {
	Format     string `short:"f" long:"format" description:"open as this format instead of probing" choice:"zip" choice:"rar" choice:"7z" choice:"tar" choice:"tar.gz" choice:"tar.zst" choice:"tar.xz"`
	Password   string `short:"p" long:"password" description:"password for encrypted rar and 7z archives"`
	GuessNames bool   `long:"guess-names" description:"guess the charset of legacy-encoded zip entry names"`
}

func (o SourceOptions) open(ctx context.Context, name string, logger *log.Logger) (*unarr.Archive, error) {
	stream, err := o.openStream(ctx, name, logger)
	if err != nil {
		return nil, err
	}

	var optFns []func(*unarr.Options)
	if o.Format != "" {
		f, err := unarr.ParseFormat(o.Format)
		if err != nil {
			_ = stream.Close()
			return nil, err
		}
		optFns = append(optFns, unarr.WithFormat(f))
	}
	if o.Password != "" {
		optFns = append(optFns, unarr.WithPassword(o.Password))
	}
	if o.GuessNames {
		optFns = append(optFns, unarr.WithNameDecoder(charset.Guess))
	}

	a, err := unarr.Open(stream, optFns...)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	return a, nil
}

func (o SourceOptions) openStream(ctx context.Context, name string, logger *log.Logger) (*unarr.Stream, error) {
	if !strings.HasPrefix(name, "s3://") {
		return unarr.NewFileStream(name)
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(name, "s3://"), "/")
	if !ok || key == "" {
		return nil, fmt.Errorf(`invalid S3 URI "%s"`, name)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config error: %w", err)
	}

	st, err := s3stream.New(s3.NewFromConfig(cfg), bucket, key,
		func(opts *s3stream.Options) {
			opts.CtxFn = func() context.Context { return ctx }
		},
		s3stream.WithProgressLogger(logger, 5*time.Second))
	if err != nil {
		return nil, fmt.Errorf(`open "s3://%s/%s" error: %w`, bucket, key, err)
	}

	return unarr.NewReaderAtStream(st, st.Size()), nil
}
