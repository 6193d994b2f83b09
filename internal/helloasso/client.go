package helloasso

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dghubble/sling"
	"github.com/grimpo6/helloasso-certificates/internal/config"
)

const formsPageSize = 100

// Client is a bearer-authenticated client for the HelloAsso v5 API
type Client struct {
	api          *sling.Sling
	organization string
	formType     string
}

type pageParams struct {
	PageSize  int `url:"pageSize"`
	PageIndex int `url:"pageIndex"`
}

// NewClient creates an API client using the given access token
func NewClient(cfg *config.Config, token AccessToken, httpClient *http.Client) *Client {
	return &Client{
		api: sling.New().
			Client(httpClient).
			Base(cfg.APIBaseURL).
			Set("User-Agent", UserAgent).
			Set("Accept", "application/json").
			Set("Authorization", "Bearer "+string(token)),
		organization: cfg.Organization,
		formType:     cfg.FormType,
	}
}

func (c *Client) organizationPath() string {
	return "organizations/" + url.PathEscape(c.organization)
}

// ListForms returns every form of the organization, walking the listing pages
// until the last one.
func (c *Client) ListForms(ctx context.Context) ([]Form, error) {
	forms := make([]Form, 0)
	params := pageParams{PageSize: formsPageSize, PageIndex: 1}

	for {
		var page FormsPage
		req := c.api.New().Get(c.organizationPath() + "/forms").QueryStruct(params)
		if err := receive(ctx, req, "api.forms", &page); err != nil {
			return nil, fmt.Errorf("listing forms: %w", err)
		}

		for i, form := range page.Data {
			if form.Slug == "" {
				return nil, fmt.Errorf("%w: form %d (%q) has no formSlug", ErrMalformedResponse, i, form.Title)
			}
			forms = append(forms, form)
		}

		// older API versions return the whole listing without pagination
		if page.Pagination == nil || page.Pagination.IsLast() {
			return forms, nil
		}
		params.PageIndex++
	}
}

// ListOrders returns one page of the orders of a form
func (c *Client) ListOrders(ctx context.Context, formSlug string, pageIndex, pageSize int) (*OrdersPage, error) {
	path := fmt.Sprintf("%s/forms/%s/%s/orders",
		c.organizationPath(), url.PathEscape(c.formType), url.PathEscape(formSlug))
	req := c.api.New().Get(path).QueryStruct(pageParams{PageSize: pageSize, PageIndex: pageIndex})

	var page OrdersPage
	if err := receive(ctx, req, "api.orders", &page); err != nil {
		return nil, fmt.Errorf("listing orders page %d: %w", pageIndex, err)
	}

	if page.Pagination == nil {
		return nil, fmt.Errorf("%w: orders page %d has no pagination", ErrMalformedResponse, pageIndex)
	}
	for i := range page.Data {
		order := &page.Data[i]
		if order.ID == 0 {
			return nil, fmt.Errorf("%w: order %d of page %d has no id", ErrMalformedResponse, i, pageIndex)
		}
		if order.Date.IsZero() {
			return nil, fmt.Errorf("%w: order %d has no date", ErrMalformedTimestamp, order.ID)
		}
	}

	return &page, nil
}

// GetOrder returns the full detail of an order
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	req := c.api.New().Get("orders/" + strconv.FormatInt(id, 10))

	var order Order
	if err := receive(ctx, req, "api.order", &order); err != nil {
		return nil, fmt.Errorf("fetching order %d: %w", id, err)
	}
	if order.ID == 0 {
		order.ID = id
	}

	return &order, nil
}
