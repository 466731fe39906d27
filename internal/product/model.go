package product

// StockPolicy controls how availability is decided for a product.
type StockPolicy string

const (
	// StockTracked compares requested quantity against a tracked count.
	StockTracked StockPolicy = "tracked"
	// StockStatic uses a manually maintained in/out-of-stock flag.
	StockStatic StockPolicy = "static"
)

type Product struct {
	ID            int64
	Name          string
	SKU           string
	Price         float64
	ImageURL      *string
	Published     bool
	StockPolicy   StockPolicy
	StockQuantity int64
	InStock       bool
	Options       []Option
}

// Option is one purchasable variant axis value, e.g. size=L. Options with
// their own tracked stock override the product-level count.
type Option struct {
	ID            int64
	ProductID     int64
	Name          string
	Value         string
	StockQuantity *int64
}

// Available reports whether qty units of the product (optionally narrowed to
// a variant option) can currently be sold.
func (p *Product) Available(optionIDs []int64, qty int64) bool {
	if !p.Published {
		return false
	}

	switch p.StockPolicy {
	case StockTracked:
		// Variant-aware when any selected option tracks its own stock.
		for _, id := range optionIDs {
			if opt := p.findOption(id); opt != nil && opt.StockQuantity != nil {
				if *opt.StockQuantity < qty {
					return false
				}
				return true
			}
		}
		return p.StockQuantity >= qty
	default:
		return p.InStock
	}
}

func (p *Product) findOption(id int64) *Option {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

// VariantText renders the selected option values for order line snapshots,
// e.g. "size: L, color: red".
func (p *Product) VariantText(optionIDs []int64) string {
	text := ""
	for _, id := range optionIDs {
		opt := p.findOption(id)
		if opt == nil {
			continue
		}
		if text != "" {
			text += ", "
		}
		text += opt.Name + ": " + opt.Value
	}
	return text
}
