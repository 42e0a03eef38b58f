package entities

type ProductCategory struct {
	Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	Active      bool   `json:"active"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

type Product struct {
	Model
	Name        string  `gorm:"index;size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"` // low-stock threshold for this product
	CategoryID  *string `gorm:"index;size:36" json:"category_id,omitempty"`
	ImageURL    string  `gorm:"size:2048" json:"image_url,omitempty"`
	Active      bool    `json:"active"`
}

func (Product) TableName() string {
	return "products"
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	Model
	CustomerName  string      `gorm:"index;size:255;not null" json:"customer_name"`
	CustomerEmail string      `gorm:"size:255" json:"customer_email"`
	CustomerPhone string      `gorm:"size:32" json:"customer_phone"`
	MemberID      *string     `gorm:"index;size:36" json:"member_id,omitempty"`
	Total         float64     `json:"total"`
	Status        OrderStatus `gorm:"index;size:20;default:'pending'" json:"status"`
	PaymentMethod string      `gorm:"size:50" json:"payment_method,omitempty"`
	Notes         string      `gorm:"type:text" json:"notes,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	Model
	OrderID   string  `gorm:"index;size:36;not null" json:"order_id"`
	ProductID string  `gorm:"index;size:36;not null" json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
