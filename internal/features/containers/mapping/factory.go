package mapping

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"terminal-commons/internal/features/containers/catalog"
	"terminal-commons/internal/features/shipments/domain"
)

// ContainerDataFactory turns a scraper's raw container row into a
// ContainerAvailability record. It maps raw keys to normalized field names,
// runs the scraper's rule catalog over the result, and stores anything left
// over in the record's additional info so no scraped data is dropped.
type ContainerDataFactory struct {
	scraper domain.Scraper
	mapping Mapping
	rules   []catalog.Rule
	logger  *zap.Logger
}

// NewContainerDataFactory builds a factory for the named scraper. It fails
// when the scraper has no mapping table or no rule catalog registered.
func NewContainerDataFactory(scraper domain.Scraper, logger *zap.Logger) (*ContainerDataFactory, error) {
	mapping, ok := ForScraper(scraper)
	if !ok {
		return nil, fmt.Errorf("no field mapping registered for scraper %s", scraper)
	}
	rules, err := catalog.ForScraper(scraper)
	if err != nil {
		return nil, err
	}
	return &ContainerDataFactory{
		scraper: scraper,
		mapping: mapping,
		rules:   rules,
		logger:  logger,
	}, nil
}

// Build produces a ContainerAvailability for one raw row scraped for the
// given shipment. Recognized fields land on the record's typed columns,
// everything else in AdditionalInfo; null values are discarded.
func (f *ContainerDataFactory) Build(shipmentID uuid.UUID, row map[string]any) (*domain.ContainerAvailability, error) {
	leftover := make(map[string]any, len(row))
	for k, v := range row {
		leftover[k] = v
	}

	mapped, consumed := Apply(f.mapping, row)
	for _, key := range consumed {
		delete(leftover, key)
	}

	for _, rule := range f.rules {
		rule.Apply(row, mapped)
	}

	record := &domain.ContainerAvailability{
		ID:             uuid.New(),
		ShipmentID:     shipmentID,
		ScrapeStatus:   domain.StatusActive,
		AdditionalInfo: map[string]any{},
	}

	for field, value := range mapped {
		if value == nil {
			continue
		}
		if !domain.IsRecognizedContainerField(field) {
			record.AdditionalInfo[field] = value
			continue
		}
		if !record.SetField(field, stringify(value)) {
			f.logger.Warn("unsettable container field",
				zap.String("field", field),
				zap.String("scraper", string(f.scraper)))
		}
	}

	for key, value := range leftover {
		if value == nil {
			continue
		}
		record.AdditionalInfo[key] = value
	}
	if len(record.AdditionalInfo) == 0 {
		record.AdditionalInfo = nil
	}

	if record.ContainerNumber == "" {
		return nil, fmt.Errorf("raw row for shipment %s carries no container number", shipmentID)
	}

	now := time.Now().UTC()
	record.LastScrapedTime = &now
	return record, nil
}

// stringify renders a raw scraped value into the string form the container
// columns store. Scraper feeds mix strings, numbers and booleans freely.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
