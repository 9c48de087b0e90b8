// Package s3stream reads S3 objects through ranged GetObject calls so that
// archives can be opened straight out of a bucket without downloading them.
//
// The returned Stream implements io.ReaderAt with a known size, which is
// everything unarr.NewReaderAtStream needs. Sequential formats decode the
// object front to back in ranged chunks; zip and 7z additionally jump to
// their directories at the end of the object.
package s3stream

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client abstracts the S3 APIs needed to implement Stream.
type Client interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Options customises New.
type Options struct {
	// CtxFn returns a context.Context to be used with every GetObject or
	// HeadObject call.
	//
	// By default, context.Background is used.
	CtxFn func() context.Context

	// ModifyGetObjectInput can be used to modify the GetObject input
	// parameters such as adding ExpectedBucketOwner.
	ModifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput

	// ModifyHeadObjectInput can be used to modify the HeadObject input
	// parameters such as adding ExpectedBucketOwner.
	ModifyHeadObjectInput func(*s3.HeadObjectInput) *s3.HeadObjectInput

	logger progressLogger
}

// New returns a Stream over the given bucket and key, determining the object
// size with a HeadObject call.
func New(client Client, bucket, key string, optFns ...func(*Options)) (*Stream, error) {
	opts := newOptions(optFns)

	headObjectOutput, err := client.HeadObject(opts.CtxFn(), opts.ModifyHeadObjectInput(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}))
	if err != nil {
		return nil, fmt.Errorf("determine object size error: %w", err)
	}

	return newStream(client, bucket, key, aws.ToInt64(headObjectOutput.ContentLength), opts), nil
}

// NewWithSize returns a Stream over the given bucket and key with a size
// already known to the caller, skipping the HeadObject call.
func NewWithSize(client Client, bucket, key string, size int64, optFns ...func(*Options)) *Stream {
	return newStream(client, bucket, key, size, newOptions(optFns))
}

func newOptions(optFns []func(*Options)) *Options {
	opts := &Options{
		CtxFn: context.Background,
		ModifyGetObjectInput: func(input *s3.GetObjectInput) *s3.GetObjectInput {
			return input
		},
		ModifyHeadObjectInput: func(input *s3.HeadObjectInput) *s3.HeadObjectInput {
			return input
		},
	}
	for _, fn := range optFns {
		fn(opts)
	}
	return opts
}

func newStream(client Client, bucket, key string, size int64, opts *Options) *Stream {
	return &Stream{
		client:               client,
		bucket:               bucket,
		key:                  key,
		size:                 size,
		ctxFn:                opts.CtxFn,
		modifyGetObjectInput: opts.ModifyGetObjectInput,
		logger:               opts.logger,
	}
}

// Stream reads one S3 object with ranged GetObject calls.
type Stream struct {
	client               Client
	bucket, key          string
	size                 int64
	ctxFn                func() context.Context
	modifyGetObjectInput func(*s3.GetObjectInput) *s3.GetObjectInput
	logger               progressLogger
}

var _ io.ReaderAt = (*Stream)(nil)

func (s *Stream) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= s.size {
		return 0, io.EOF
	}

	end := off + int64(len(p))
	if end > s.size {
		end = s.size
	}
	if end == off {
		return 0, nil
	}

	getObjectOutput, err := s.client.GetObject(s.ctxFn(), s.modifyGetObjectInput(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end-1)),
	}))
	if err != nil {
		return 0, err
	}

	n, err = io.ReadFull(getObjectOutput.Body, p[:end-off])
	_ = getObjectOutput.Body.Close()
	if err != nil {
		return n, err
	}

	if s.logger != nil {
		s.logger.log(int64(n))
	}

	// io.ReaderAt requires an error explaining a short read.
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

// Size returns the object's size in bytes.
func (s *Stream) Size() int64 {
	return s.size
}
