package helloasso

// AccessToken is the bearer token returned by the token endpoint
type AccessToken string

// Form is a registration form of the organization
type Form struct {
	Title string `json:"title"`
	Slug  string `json:"formSlug"`
	Type  string `json:"formType,omitempty"`
}

// Pagination describes the position of a page in a listing
type Pagination struct {
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	PageIndex  int `json:"pageIndex"`
	TotalPages int `json:"totalPages"`
}

// IsLast reports whether no page follows this one
func (p Pagination) IsLast() bool {
	return p.PageIndex >= p.TotalPages
}

// FormsPage is one page of the forms listing
type FormsPage struct {
	Data       []Form      `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// OrdersPage is one page of the orders listing of a form
type OrdersPage struct {
	Data       []Order     `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// Order is a completed registration, possibly covering several persons
type Order struct {
	ID    int64      `json:"id"`
	Date  Timestamp  `json:"date"`
	Items []LineItem `json:"items"`
}

// Persons returns the line items registering a person, in order
func (o *Order) Persons() []LineItem {
	persons := make([]LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.IsPerson() {
			persons = append(persons, item)
		}
	}
	return persons
}

// LineItem is one entry of an order. Only items carrying a user are persons;
// donations and options have none.
type LineItem struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name,omitempty"`
	Type         string        `json:"type,omitempty"`
	User         *User         `json:"user,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// IsPerson reports whether the item registers a person
func (li *LineItem) IsPerson() bool {
	return li.User != nil
}

// User is the person registered by a line item
type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CustomField is an operator-defined question and its answer. File-upload
// answers hold the URL of the uploaded document.
type CustomField struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Answer string `json:"answer"`
}
