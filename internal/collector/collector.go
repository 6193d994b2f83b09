// Package collector walks the paginated order listing of a form and keeps the
// ids of the orders registered on or after an optional minimum date.
package collector

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/grimpo6/helloasso-certificates/internal/helloasso"
	"github.com/grimpo6/helloasso-certificates/internal/logger"
)

// PageSize is the number of orders requested per page
const PageSize = 100

// OrderLister returns one page of the orders of a form
type OrderLister interface {
	ListOrders(ctx context.Context, formSlug string, pageIndex, pageSize int) (*helloasso.OrdersPage, error)
}

// Result holds the collected order ids in discovery order
type Result struct {
	IDs []int64
	// Persons counts the person line items of the collected orders
	Persons    int
	Pages      int
	Skipped    int
	Duplicates int
}

// Collector gathers the orders of a form
type Collector struct {
	orders   OrderLister
	minDate  *time.Time
	progress io.Writer
}

// New creates a Collector. A nil minDate keeps every order; progress receives
// one line per processed page and the final count.
func New(orders OrderLister, minDate *time.Time, progress io.Writer) *Collector {
	if progress == nil {
		progress = io.Discard
	}
	return &Collector{
		orders:   orders,
		minDate:  minDate,
		progress: progress,
	}
}

// Collect pages through the orders of formSlug starting at page 1 and stops once
// the returned page index reaches the total page count.
func (c *Collector) Collect(ctx context.Context, formSlug string) (*Result, error) {
	result := &Result{IDs: make([]int64, 0)}
	seen := make(map[int64]bool)

	fmt.Fprintf(c.progress, "Process Form %s\n", formSlug)

	pageIndex := 1
	for {
		fmt.Fprintf(c.progress, "Process page %d of submissions\n", pageIndex)

		page, err := c.orders.ListOrders(ctx, formSlug, pageIndex, PageSize)
		if err != nil {
			return nil, fmt.Errorf("collecting submissions: %w", err)
		}
		result.Pages++

		kept := 0
		for i := range page.Data {
			order := &page.Data[i]

			if c.minDate != nil && order.Date.Before(*c.minDate) {
				result.Skipped++
				logger.IncrCounter("orders.skipped")
				continue
			}
			if seen[order.ID] {
				result.Duplicates++
				continue
			}

			seen[order.ID] = true
			result.IDs = append(result.IDs, order.ID)
			result.Persons += len(order.Persons())
			kept++
		}

		logger.Debug("Orders page processed", logger.Fields{
			"form":       formSlug,
			"page_index": pageIndex,
			"orders":     len(page.Data),
			"kept":       kept,
		})

		if page.Pagination == nil || page.Pagination.IsLast() {
			break
		}
		pageIndex++
	}

	fmt.Fprintf(c.progress, "%d submissions found\n", result.Persons)
	logger.Info("Submissions collected", logger.Fields{
		"form":       formSlug,
		"orders":     len(result.IDs),
		"persons":    result.Persons,
		"pages":      result.Pages,
		"skipped":    result.Skipped,
		"duplicates": result.Duplicates,
	})

	return result, nil
}
