package s3stream

import (
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

// WithProgressLogger adds a progress logger that logs the cumulative number of
// bytes fetched from S3 with the given interval.
//
// For example, if interval is `5*time.Second`, every 5 seconds the given
// logger will print `fetched X so far` where X is displayed in a
// human-friendly format (e.g. 5 KiB, 1 MiB, etc.). Bytes fetched more than
// once (an archive being rewound for a re-read counts again) are counted
// every time, so the total can exceed the object size.
func WithProgressLogger(logger *log.Logger, interval time.Duration) func(*Options) {
	return func(opts *Options) {
		opts.logger = &logLogger{
			logger: logger,
			rate:   &rate.Sometimes{Interval: interval},
		}
	}
}

type progressLogger interface {
	log(n int64)
}

type logLogger struct {
	logger  *log.Logger
	rate    *rate.Sometimes
	fetched int64
}

func (l *logLogger) log(n int64) {
	l.fetched += n
	l.rate.Do(func() {
		l.logger.Printf("fetched %s so far", humanize.IBytes(uint64(l.fetched)))
	})
}
