/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Sink persists one run artifact. Names are slash-separated and
// relative to the sink's root.
type Sink interface {
	Put(ctx context.Context, name string, value any) error
}

// encode renders an artifact the way every sink stores it. The four
// space indent matches the historical artifact files, which downstream
// tooling diffs textually.
func encode(name string, value any) ([]byte, error) {
	raw, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding artifact %q: %w", name, err)
	}
	return raw, nil
}

// DirSink writes artifacts under a local root directory, creating
// intermediate directories as needed.
type DirSink struct {
	root string
}

// NewDirSink builds a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{root: dir}
}

func (d *DirSink) Put(ctx context.Context, name string, value any) error {
	raw, err := encode(name, value)
	if err != nil {
		return err
	}
	dest := filepath.Join(d.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating artifact directory for %q: %w", name, err)
	}
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		return fmt.Errorf("writing artifact %q: %w", name, err)
	}
	clog.FromContext(ctx).With("path", dest).Debugf("Artifact written")
	return nil
}

// BucketSink writes artifacts as objects in a GCS bucket.
type BucketSink struct {
	bucket *storage.BucketHandle
}

// NewBucketSink builds a sink over the named bucket.
func NewBucketSink(client *storage.Client, bucket string) *BucketSink {
	return &BucketSink{bucket: client.Bucket(bucket)}
}

func (b *BucketSink) Put(ctx context.Context, name string, value any) error {
	raw, err := encode(name, value)
	if err != nil {
		return err
	}
	w := b.bucket.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("writing artifact object %q: %w", name, err)
	}
	// Close commits the object; an upload error surfaces here.
	if err := w.Close(); err != nil {
		return fmt.Errorf("committing artifact object %q: %w", name, err)
	}
	clog.FromContext(ctx).With("object", name).Debugf("Artifact uploaded")
	return nil
}

// MultiSink fans each Put out to every member concurrently and
// reports the first failure.
type MultiSink []Sink

func (m MultiSink) Put(ctx context.Context, name string, value any) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range m {
		g.Go(func() error {
			return sink.Put(ctx, name, value)
		})
	}
	return g.Wait()
}
