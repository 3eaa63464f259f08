package domain

// Cart is the ordered list of line items for one storage profile.
// Insertion order is add order.
type Cart struct {
	Items []LineItem
}

func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// View builds the render model for the cart.
func (c Cart) View() CartView {
	items := make([]CartViewItem, 0, len(c.Items))
	for i, item := range c.Items {
		items = append(items, CartViewItem{
			Index:     i,
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: FormatPrice(item.LineTotal()),
		})
	}

	return CartView{
		Items: items,
		Count: c.Count(),
		Total: FormatPrice(c.Total()),
		Empty: len(items) == 0,
	}
}

// CartView is what a renderer draws: one entry per line item plus the
// badge count and the total rounded to two decimals.
type CartView struct {
	Items []CartViewItem `json:"items"`
	Count int            `json:"count"`
	Total string         `json:"total"`
	Empty bool           `json:"empty"`
}

type CartViewItem struct {
	Index     int     `json:"index"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal string  `json:"line_total"`
}
