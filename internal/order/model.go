package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusOnHold     Status = "on-hold"
)

// allowedTransitions is the admin-facing status machine. The main line runs
// pending -> processing -> shipped -> completed; cancelled, refunded and
// on-hold branch off it.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled, StatusOnHold},
	StatusProcessing: {StatusShipped, StatusCancelled, StatusRefunded, StatusOnHold},
	StatusShipped:    {StatusCompleted, StatusRefunded},
	StatusOnHold:     {StatusProcessing, StatusCancelled},
	StatusCompleted:  {StatusRefunded},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a snapshot of a cart at purchase time plus computed financials.
// Orders are never physically deleted; lifecycle is status-only.
type Order struct {
	ID        int64
	Number    string
	Counter   int64
	OrderedBy int64
	Status    Status

	Currency     string
	ExchangeRate float64

	// Invariant: Total = Subtotal - Discount + ShippingTotal + Tax, always
	// recomputed server-side.
	Subtotal      float64
	Discount      float64
	ShippingTotal float64
	Tax           float64
	Total         float64
	// CustomerTotal is Total converted into the display currency.
	CustomerTotal float64

	ShippingMethodID   int64
	ShippingMethodName string
	PaymentMethodID    int64

	ShippingAddress AddressSnapshot
	BillingAddress  AddressSnapshot

	OrderNote *string
	Items     []Item

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AddressSnapshot denormalizes the address fields an order needs so later
// address edits never rewrite history.
type AddressSnapshot struct {
	Name        string
	Phone       string
	Address1    string
	Address2    *string
	City        string
	Province    string
	PostalCode  string
	CountryCode string
	CountryName string
}

// Item carries denormalized product name, SKU and variant text resolved at
// purchase time.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	SKU         string
	VariantText string
	Quantity    int64
	UnitPrice   float64
	Subtotal    float64
	ImageURL    *string
}

type AddressInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province"`
	PostalCode  string `json:"postalCode"`
	CountryCode string `json:"country"`
}

// CreateOrderParams is the order submission payload after transport decoding.
type CreateOrderParams struct {
	CartID string

	Guest          bool
	Email          string
	FirstName      string
	LastName       string
	Address        *AddressInput
	BillingAddress *AddressInput

	ShippingAddressID *int64
	BillingAddressID  *int64

	PaymentMethodID  int64
	DeliveryMethodID int64

	// CartTotal is the total the client saw when it submitted. Reconciled
	// against the server-computed total before anything persists.
	CartTotal float64

	OrderNote            *string
	UseShippingAsBilling bool
}
