package rules

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"terminal-commons/internal/core/timeutil"
	"terminal-commons/internal/features/shipments/domain"
	"terminal-commons/internal/features/shipments/ports"
)

// Context is the mutable state shared by one rule-chain invocation. It is
// built per processing call and discarded afterwards. Fields are optional;
// each rule validates the ones it needs.
type Context struct {
	// Shipment is the shipment being transitioned.
	Shipment *domain.Shipment
	// Container is the container availability record tied to the shipment, when present.
	Container *domain.ContainerAvailability
	// Shipments receives the selection result of FetchShipmentsRule.
	Shipments []domain.Shipment

	// ShipmentID and ContainerNumber identify a record for lookup-style rules.
	ShipmentID      uuid.UUID
	ContainerNumber string
	// TargetShipmentID short-circuits FetchShipmentsRule to a single shipment.
	TargetShipmentID uuid.UUID

	// ScraperMetadata describes the terminal the current run scrapes.
	ScraperMetadata *domain.ScraperMetadata

	// ShipmentRepo and ContainerRepo give rules persistence access.
	ShipmentRepo  ports.ShipmentRepository
	ContainerRepo ports.ContainerRepository

	// ErrorMessage carries a failure description into SetFailedRule, and out of
	// HandleMissingContainerRule when a record could not be stopped cleanly.
	ErrorMessage string

	// Now pins the rule-chain clock; zero means current EST time.
	Now time.Time
}

// Clock returns the effective time for this invocation.
func (c *Context) Clock() time.Time {
	if c.Now.IsZero() {
		return timeutil.NowEST()
	}
	return c.Now
}

// BusinessRule is a single side-effect-only rule over the shared context.
// An error aborts the remaining rules of the invocation; earlier mutations stand.
type BusinessRule interface {
	Apply(ctx *Context) error
}

// Engine executes an ordered list of rules. It holds no state across invocations.
type Engine struct {
	rules []BusinessRule
}

// NewEngine creates an engine over the given ordered rules.
func NewEngine(rules ...BusinessRule) *Engine {
	return &Engine{rules: rules}
}

// ApplyRules runs every rule strictly in list order. The first error stops the
// chain and is returned; no rollback of earlier rules is attempted.
func (e *Engine) ApplyRules(ctx *Context) error {
	for _, rule := range e.rules {
		if err := rule.Apply(ctx); err != nil {
			return fmt.Errorf("apply rule %T: %w", rule, err)
		}
	}
	return nil
}
