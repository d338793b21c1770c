package service

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"kickoffkart/internal/models"
	"kickoffkart/internal/repository"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// exportRecord fixes the per-record field order for both formats.
type exportRecord struct {
	XMLName     xml.Name `json:"-" xml:"product"`
	ID          string   `json:"pk" xml:"id,attr"`
	Name        string   `json:"name" xml:"name"`
	Price       int      `json:"price" xml:"price"`
	Description string   `json:"description" xml:"description"`
	Thumbnail   string   `json:"thumbnail" xml:"thumbnail"`
	Category    string   `json:"category" xml:"category"`
	IsFeatured  bool     `json:"is_featured" xml:"is_featured"`
	UserID      int      `json:"user_id" xml:"user_id"`
}

type exportCollection struct {
	XMLName  xml.Name       `xml:"products"`
	Products []exportRecord `xml:"product"`
}

// ExportService renders a user's products as JSON or XML text.
type ExportService struct {
	products repository.ProductRepo
}

func NewExportService(products repository.ProductRepo) *ExportService {
	return &ExportService{products: products}
}

// Collection serializes all of the user's products in listing order.
func (s *ExportService) Collection(ctx context.Context, userID int, format string) ([]byte, error) {
	list, err := s.products.ListByOwner(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	records := make([]exportRecord, 0, len(list))
	for _, p := range list {
		records = append(records, toRecord(p))
	}
	switch format {
	case FormatJSON:
		return json.Marshal(records)
	case FormatXML:
		return xml.Marshal(exportCollection{Products: records})
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// One serializes a single product. Missing or foreign rows yield ErrNotFound.
func (s *ExportService) One(ctx context.Context, id string, userID int, format string) ([]byte, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != userID {
		return nil, ErrNotFound
	}
	switch format {
	case FormatJSON:
		return json.Marshal(toRecord(*p))
	case FormatXML:
		return xml.Marshal(toRecord(*p))
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func toRecord(p models.Product) exportRecord {
	return exportRecord{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Thumbnail:   p.Thumbnail,
		Category:    p.Category,
		IsFeatured:  p.IsFeatured,
		UserID:      p.UserID,
	}
}
