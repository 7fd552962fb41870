package shopify

// Product mirrors the Admin REST product payload, limited to the fields the
// generation pipeline consumes.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	ProductType string    `json:"product_type"`
	Vendor      string    `json:"vendor"`
	Tags        string    `json:"tags"`
	Status      string    `json:"status"`
	Variants    []Variant `json:"variants"`
}

// Variant is a purchasable option of a product.
type Variant struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	SKU   string `json:"sku"`
}

// Shop is the storefront's own account record.
type Shop struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Domain string `json:"domain"`
}

type productEnvelope struct {
	Product Product `json:"product"`
}

type productsEnvelope struct {
	Products []Product `json:"products"`
}

type shopEnvelope struct {
	Shop Shop `json:"shop"`
}

type updateProductRequest struct {
	Product updateProductBody `json:"product"`
}

type updateProductBody struct {
	ID       int64  `json:"id"`
	BodyHTML string `json:"body_html"`
}
