// Package orders holds the read-only order fixtures the assistant can quote.
package orders

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var idPattern = regexp.MustCompile(`^ORD\d+$`)

type Order struct {
	ID       string   `yaml:"-"`
	Status   string   `yaml:"status"`
	Delivery string   `yaml:"delivery"`
	Items    []string `yaml:"items"`
	Total    string   `yaml:"total"`
}

// Catalog maps order ids to records. It is never mutated after construction.
type Catalog struct {
	orders map[string]Order
}

// Default returns the fixtures the store ships with.
func Default() *Catalog {
	return newCatalog(map[string]Order{
		"ORD123": {
			Status:   "Shipped",
			Delivery: "June 20, 2025",
			Items:    []string{"Silk Maxi Dress (Size M)", "Gold Hoop Earrings"},
			Total:    "$89.98",
		},
		"ORD456": {
			Status:   "Processing",
			Delivery: "Est. June 25, 2025",
			Items:    []string{"Organic Face Cream", "Bamboo Hairbrush"},
			Total:    "$42.50",
		},
	})
}

type fixtureFile struct {
	Orders map[string]Order `yaml:"orders"`
}

// LoadFile reads a YAML fixture file of the form
//
//	orders:
//	  ORD123:
//	    status: Shipped
//	    delivery: June 20, 2025
//	    items: [Silk Maxi Dress (Size M)]
//	    total: $89.98
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order fixtures: %w", err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing order fixtures: %w", err)
	}

	for id := range f.Orders {
		if !idPattern.MatchString(id) {
			return nil, fmt.Errorf("invalid order id %q: must be ORD followed by digits", id)
		}
	}
	return newCatalog(f.Orders), nil
}

func newCatalog(src map[string]Order) *Catalog {
	orders := make(map[string]Order, len(src))
	for id, o := range src {
		o.ID = id
		o.Items = append([]string(nil), o.Items...)
		orders[id] = o
	}
	return &Catalog{orders: orders}
}

// Lookup returns the order for id. Unknown ids are not an error.
func (c *Catalog) Lookup(id string) (Order, bool) {
	o, ok := c.orders[id]
	if !ok {
		return Order{}, false
	}
	o.Items = append([]string(nil), o.Items...)
	return o, true
}

func (c *Catalog) Len() int { return len(c.orders) }
