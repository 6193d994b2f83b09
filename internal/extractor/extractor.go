package extractor

import (
	"context"
	"fmt"
	"io"

	"github.com/grimpo6/helloasso-certificates/internal/helloasso"
	"github.com/grimpo6/helloasso-certificates/internal/logger"
	"github.com/grimpo6/helloasso-certificates/internal/storage"
)

// OrderFetcher returns the full detail of an order
type OrderFetcher interface {
	GetOrder(ctx context.Context, id int64) (*helloasso.Order, error)
}

// Downloader fetches a document; the caller closes the returned body
type Downloader interface {
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// Document is one file written (or planned, in dry-run mode)
type Document struct {
	OrderID  int64
	Kind     Kind
	URL      string
	Filename string
	Path     string
	Bytes    int64
}

// Result summarizes an extraction
type Result struct {
	Orders       int
	Persons      int
	Certificates int
	Waivers      int
	Documents    []Document
}

// Extractor downloads the documents of a list of orders
type Extractor struct {
	orders   OrderFetcher
	files    Downloader
	store    *storage.Storage
	dryRun   bool
	progress io.Writer
}

// Option configures an Extractor
type Option func(*Extractor)

// WithDryRun reports the files that would be written without downloading them
func WithDryRun(dryRun bool) Option {
	return func(e *Extractor) {
		e.dryRun = dryRun
	}
}

// WithProgress sets where one line per document is reported
func WithProgress(w io.Writer) Option {
	return func(e *Extractor) {
		e.progress = w
	}
}

// New creates an Extractor
func New(orders OrderFetcher, files Downloader, store *storage.Storage, opts ...Option) *Extractor {
	e := &Extractor{
		orders:   orders,
		files:    files,
		store:    store,
		progress: io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes ids in order. The form directory is created first; the first
// failing fetch, download or write stops the run, leaving earlier files in place.
func (e *Extractor) Extract(ctx context.Context, formSlug string, ids []int64) (*Result, error) {
	result := &Result{Documents: make([]Document, 0)}

	if !e.dryRun {
		if _, err := e.store.EnsureDir(formSlug); err != nil {
			return result, fmt.Errorf("preparing output directory: %w", err)
		}
	}

	for _, id := range ids {
		order, err := e.orders.GetOrder(ctx, id)
		if err != nil {
			return result, fmt.Errorf("extracting certificates: %w", err)
		}
		result.Orders++

		for _, item := range order.Persons() {
			result.Persons++
			prefix := FilePrefix(item.User)

			for _, kind := range Kinds {
				field := FindField(item.CustomFields, kind)
				if field == nil {
					continue
				}
				if field.Answer == "" {
					logger.Warn("Matched field has no answer", logger.Fields{
						"order_id": id,
						"person":   prefix,
						"field":    field.Name,
						"kind":     string(kind),
					})
					continue
				}

				doc, err := e.save(ctx, formSlug, id, prefix, kind, field.Answer)
				if err != nil {
					return result, fmt.Errorf("saving %s of %s (order %d): %w", kind, prefix, id, err)
				}
				result.Documents = append(result.Documents, *doc)
				switch kind {
				case KindCertificate:
					result.Certificates++
				case KindWaiver:
					result.Waivers++
				}
			}
		}
	}

	return result, nil
}

func (e *Extractor) save(ctx context.Context, formSlug string, orderID int64, prefix string, kind Kind, answerURL string) (*Document, error) {
	filename := FileName(prefix, kind, FileExtension(answerURL))
	doc := &Document{
		OrderID:  orderID,
		Kind:     kind,
		URL:      answerURL,
		Filename: filename,
		Path:     e.store.Path(formSlug, filename),
	}

	if e.dryRun {
		fmt.Fprintf(e.progress, "Would download %s\n", doc.Path)
		return doc, nil
	}

	body, err := e.files.Download(ctx, answerURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() // nolint:errcheck

	path, n, err := e.store.Save(formSlug, filename, body)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	doc.Bytes = n

	logger.IncrCounter("downloads." + string(kind))
	logger.Debug("Document saved", logger.Fields{
		"order_id": orderID,
		"kind":     string(kind),
		"path":     path,
		"bytes":    n,
	})
	fmt.Fprintf(e.progress, "Saved %s\n", path)

	return doc, nil
}
