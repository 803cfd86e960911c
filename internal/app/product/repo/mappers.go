package repo

import "github.com/light-bringer/procat-editor/internal/app/product/domain"

// Product is the record store's JSON shape for a product.
//
//	{"id": ..., "title": "...", "variants": {"edges": [{"node": {"id": ..., "sku": "...", "price": "..."}}]}}
type Product struct {
	ID       domain.RecordID `json:"id"`
	Title    string          `json:"title"`
	Variants Variants        `json:"variants"`
}

// Variants is the connection wrapper around variant nodes.
type Variants struct {
	Edges []VariantEdge `json:"edges"`
}

// VariantEdge wraps a single variant node.
type VariantEdge struct {
	Node VariantNode `json:"node"`
}

// VariantNode is a single product variant.
type VariantNode struct {
	ID    domain.RecordID `json:"id"`
	SKU   *string         `json:"sku"`
	Price string          `json:"price"`
}

// UpdateRequest is the body of PUT /api/products/update.
type UpdateRequest struct {
	Products []Product `json:"products"`
}

// ToDomain converts a wire product to a domain record.
func ToDomain(p Product) domain.ProductRecord {
	var variants []domain.Variant
	if len(p.Variants.Edges) > 0 {
		variants = make([]domain.Variant, 0, len(p.Variants.Edges))
		for _, e := range p.Variants.Edges {
			v := domain.Variant{ID: e.Node.ID, Price: e.Node.Price}
			if e.Node.SKU != nil {
				v.SKU = *e.Node.SKU
			}
			variants = append(variants, v)
		}
	}
	return domain.ProductRecord{ID: p.ID, Title: p.Title, Variants: variants}
}

// FromDomain converts a domain record to its wire form.
func FromDomain(r domain.ProductRecord) Product {
	edges := make([]VariantEdge, 0, len(r.Variants))
	for _, v := range r.Variants {
		node := VariantNode{ID: v.ID, Price: v.Price}
		if v.SKU != "" {
			sku := v.SKU
			node.SKU = &sku
		}
		edges = append(edges, VariantEdge{Node: node})
	}
	return Product{ID: r.ID, Title: r.Title, Variants: Variants{Edges: edges}}
}

// ToDomainList converts a wire product list.
func ToDomainList(products []Product) []domain.ProductRecord {
	out := make([]domain.ProductRecord, 0, len(products))
	for _, p := range products {
		out = append(out, ToDomain(p))
	}
	return out
}

// FromDomainList converts domain records to wire products.
func FromDomainList(records []domain.ProductRecord) []Product {
	out := make([]Product, 0, len(records))
	for _, r := range records {
		out = append(out, FromDomain(r))
	}
	return out
}
