package cart

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	// 数量が1未満の追加
	ErrInvalidQuantity = errors.New("invalid quantity")
	// 明細が見つからない
	ErrItemNotFound = errors.New("cart item not found")
)

// 追加する商品（追加時点の価格・原価を持つ）
type Product struct {
	ID    int64
	Name  string
	Price int64
	Cost  int64
}

// カートの明細
type LineItem struct {
	ID        string `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	UnitCost  int64  `json:"unit_cost"`
	Quantity  int64  `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// LineTotal は unit_price * quantity
func (li LineItem) LineTotal() int64 {
	return li.UnitPrice * li.Quantity
}

// Cart はチェックアウトセッションが持つ明細の並び。
// (product_id, variant) の組は重複しない。
type Cart struct {
	Items []LineItem `json:"items"`
}

// New は空のカート
func New() *Cart {
	return &Cart{Items: []LineItem{}}
}

// AddItem は同じ (product_id, variant) があれば数量を加算し、無ければ末尾に追加する。
// quantity <= 0 はカートを変えずに ErrInvalidQuantity を返す。
func (c *Cart) AddItem(p Product, quantity int64, variant string, notes string) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	variant = strings.TrimSpace(variant)
	notes = strings.TrimSpace(notes)

	if i := c.indexOf(p.ID, variant); i >= 0 {
		c.Items[i].Quantity += quantity
		if notes != "" {
			c.Items[i].Notes = notes
		}
		return c.Items[i], nil
	}

	item := LineItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		UnitCost:  p.Cost,
		Quantity:  quantity,
		Variant:   variant,
		Notes:     notes,
	}
	c.Items = append(c.Items, item)
	return item, nil
}

// UpdateQuantity は数量を上書きする。0以下なら明細ごと削除。
func (c *Cart) UpdateQuantity(itemID string, quantity int64) error {
	i := c.indexByID(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		c.removeAt(i)
		return nil
	}
	c.Items[i].Quantity = quantity
	return nil
}

// RemoveItem は明細を削除
func (c *Cart) RemoveItem(itemID string) error {
	i := c.indexByID(itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.removeAt(i)
	return nil
}

// Find は明細IDで探す
func (c *Cart) Find(itemID string) (LineItem, bool) {
	i := c.indexByID(itemID)
	if i < 0 {
		return LineItem{}, false
	}
	return c.Items[i], true
}

// QuantityOf は同一商品（バリアント問わず）の合計数量。在庫チェック用。
func (c *Cart) QuantityOf(productID int64) int64 {
	var n int64
	for _, it := range c.Items {
		if it.ProductID == productID {
			n += it.Quantity
		}
	}
	return n
}

// Subtotal は毎回明細から計算する（キャッシュしない）。
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

// TotalCost は原価合計
func (c *Cart) TotalCost() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.UnitCost * it.Quantity
	}
	return total
}

func (c *Cart) TotalQuantity() int64 {
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear は送信完了・放棄時に明細を空にする
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

func (c *Cart) indexOf(productID int64, variant string) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.Variant == variant {
			return i
		}
	}
	return -1
}

func (c *Cart) indexByID(itemID string) int {
	for i, it := range c.Items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}
