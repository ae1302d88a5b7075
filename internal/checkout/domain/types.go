package domain

const (
	UnknownCustomer = "Unknown Customer"
	NoEmail         = "No Email"
)

// Customer is the signed-in shopper starting a checkout.
type Customer struct {
	ID    string
	Name  string
	Email string
}

// LineItem amounts are in minor currency units. UnitAmount is what the
// shopper pays, ListAmount is the price before discount.
type LineItem struct {
	ProductID  string
	Name       string
	UnitAmount int64
	ListAmount int64
	Quantity   int64
}

type Metadata struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	UserID        string
}

type SessionRequest struct {
	Currency   string
	Lines      []LineItem
	Metadata   Metadata
	SuccessURL string
	CancelURL  string
}

type Session struct {
	URL         string
	OrderNumber string
}

type PlacedOrder struct {
	Metadata
	Currency       string
	Lines          []LineItem
	DiscountAmount int64
}

// SessionState is what the provider reports about a hosted session.
type SessionState struct {
	ID          string
	OrderNumber string
	Paid        bool
}

type Confirmation struct {
	OrderNumber string
	Paid        bool
	Recorded    bool
}
