package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRule appends its name to a shared trace when applied.
type recordingRule struct {
	name      string
	trace     *[]string
	returnErr error
}

// Apply implements BusinessRule.
func (r recordingRule) Apply(ctx *Context) error {
	*r.trace = append(*r.trace, r.name)
	return r.returnErr
}

// TestEngine_ApplyRules_Order verifies rules run strictly in list order.
func TestEngine_ApplyRules_Order(t *testing.T) {
	var trace []string
	engine := NewEngine(
		recordingRule{name: "first", trace: &trace},
		recordingRule{name: "second", trace: &trace},
		recordingRule{name: "third", trace: &trace},
	)

	err := engine.ApplyRules(&Context{})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, trace)
}

// TestEngine_ApplyRules_AbortsOnError verifies the first error stops the chain
// and earlier mutations are not rolled back.
func TestEngine_ApplyRules_AbortsOnError(t *testing.T) {
	var trace []string
	ruleErr := errors.New("rule blew up")
	engine := NewEngine(
		recordingRule{name: "first", trace: &trace},
		recordingRule{name: "second", trace: &trace, returnErr: ruleErr},
		recordingRule{name: "third", trace: &trace},
	)

	err := engine.ApplyRules(&Context{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ruleErr)
	assert.Equal(t, []string{"first", "second"}, trace)
}

// TestEngine_ApplyRules_Empty verifies an empty engine is a no-op.
func TestEngine_ApplyRules_Empty(t *testing.T) {
	engine := NewEngine()
	assert.NoError(t, engine.ApplyRules(&Context{}))
}
