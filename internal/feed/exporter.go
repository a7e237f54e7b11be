package feed

import (
	"encoding/xml"
	"fmt"
	"os"

	"pinsync/internal/logger"
	"pinsync/internal/models"

	"gorm.io/gorm"
)

// Exporter writes the per-locale XML catalog files the platform polls.
type Exporter struct {
	db        *gorm.DB
	exportDir string
	logger    *logger.Logger
}

func NewExporter(db *gorm.DB, exportDir string, logger *logger.Logger) *Exporter {
	return &Exporter{
		db:        db,
		exportDir: exportDir,
		logger:    logger,
	}
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	XmlnsG  string     `xml:"xmlns:g,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	ID           string `xml:"g:id"`
	Title        string `xml:"g:title"`
	Description  string `xml:"g:description,omitempty"`
	Link         string `xml:"g:link,omitempty"`
	ImageLink    string `xml:"g:image_link,omitempty"`
	Price        string `xml:"g:price"`
	SalePrice    string `xml:"g:sale_price,omitempty"`
	Availability string `xml:"g:availability"`
}

// Export writes one feed file per storefront and returns how many files were
// written. A storefront with no products still gets an (empty) feed so feed
// registration has a readable file to point at.
func (e *Exporter) Export(storefronts []models.Storefront) (int, error) {
	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create export dir: %w", err)
	}

	written := 0
	for _, sf := range storefronts {
		if err := e.exportStorefront(sf); err != nil {
			e.logger.Error("export: store %s failed: %v", sf.StoreCode, err)
			continue
		}
		written++
	}
	return written, nil
}

func (e *Exporter) exportStorefront(sf models.Storefront) error {
	var products []models.Product
	if err := e.db.Where("store_code = ?", sf.StoreCode).Find(&products).Error; err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	items := make([]rssItem, 0, len(products))
	for _, p := range products {
		item := rssItem{
			ID:           p.ExternalID,
			Title:        p.Title,
			Price:        fmt.Sprintf("%.2f %s", p.Price, p.Currency),
			Availability: p.Availability(),
		}
		if p.Description != nil {
			item.Description = *p.Description
		}
		if p.Link != nil {
			item.Link = *p.Link
		}
		if p.ImageLink != nil {
			item.ImageLink = *p.ImageLink
		}
		if p.SalePrice != nil {
			item.SalePrice = fmt.Sprintf("%.2f %s", *p.SalePrice, p.Currency)
		}
		items = append(items, item)
	}

	doc := rssFeed{
		Version: "2.0",
		XmlnsG:  "http://base.google.com/ns/1.0",
		Channel: rssChannel{
			Title:       fmt.Sprintf("Catalog feed %s", sf.StoreCode),
			Link:        sf.BaseURL,
			Description: fmt.Sprintf("Product catalog for locale %s", sf.Locale),
			Items:       items,
		},
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feed: %w", err)
	}
	data = append([]byte(xml.Header), data...)

	path := FilePath(e.exportDir, sf)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write feed file: %w", err)
	}

	e.logger.Info("export: wrote %d items for store %s to %s", len(items), sf.StoreCode, path)
	return nil
}
