package prodcrawl

// Field identifies a product attribute extracted from a page.
type Field string

// Extracted product fields. The string values double as output column names.
const (
	FieldName     Field = "product_name"
	FieldPrice    Field = "price"
	FieldCategory Field = "category"
	FieldSKU      Field = "sku"
	FieldStock    Field = "stock"
)

// Fields lists the extracted fields in output column order.
var Fields = []Field{FieldName, FieldPrice, FieldCategory, FieldSKU, FieldStock}

// Columns returns the output column names: "url" followed by every field.
func Columns() []string {
	cols := make([]string, 0, len(Fields)+1)
	cols = append(cols, "url")
	for _, f := range Fields {
		cols = append(cols, string(f))
	}
	return cols
}

// Product is the record extracted from a single page.
// An empty string means the attribute was not found on the page.
type Product struct {
	URL      string `json:"url"`
	Name     string `json:"productName"`
	Price    string `json:"price"`
	Category string `json:"category"`
	SKU      string `json:"sku"`
	Stock    string `json:"stock"`
}

// Get returns the value of the given field.
func (p *Product) Get(f Field) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldPrice:
		return p.Price
	case FieldCategory:
		return p.Category
	case FieldSKU:
		return p.SKU
	case FieldStock:
		return p.Stock
	}
	return ""
}

// Set assigns the value of the given field. Unknown fields are ignored.
func (p *Product) Set(f Field, value string) {
	switch f {
	case FieldName:
		p.Name = value
	case FieldPrice:
		p.Price = value
	case FieldCategory:
		p.Category = value
	case FieldSKU:
		p.SKU = value
	case FieldStock:
		p.Stock = value
	}
}

// HasData reports whether any field besides URL is non-empty.
// Only products with data are emitted.
func (p *Product) HasData() bool {
	for _, f := range Fields {
		if p.Get(f) != "" {
			return true
		}
	}
	return false
}

// Values returns the record as a row matching Columns.
func (p *Product) Values() []string {
	row := make([]string, 0, len(Fields)+1)
	row = append(row, p.URL)
	for _, f := range Fields {
		row = append(row, p.Get(f))
	}
	return row
}

// Target is a URL waiting to be crawled together with its link distance
// from the seed. The seed itself has depth 0.
type Target struct {
	URL   string
	Depth int
}
