package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/internal/domain/billing"
	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
)

func TestVATBreakdown_AgrupaPorTasa(t *testing.T) {
	items := []entity.InvoiceItem{
		{Key: "room:a", Amount: dec("106"), VATRate: dec("6")},
		{Key: "room:b", Amount: dec("212"), VATRate: dec("6")},
		{Key: "extra:bar", Amount: dec("12.10"), VATRate: dec("21")},
		{Key: "extra:tax", Amount: dec("5"), VATRate: dec("0")},
	}
	lines := billing.VATBreakdown(items)
	require.Len(t, lines, 3)

	assert.True(t, dec("0").Equal(lines[0].Rate))
	assert.True(t, dec("5").Equal(lines[0].Net))
	assert.True(t, lines[0].VAT.IsZero())

	assert.True(t, dec("318").Equal(lines[1].Gross))
	assert.True(t, dec("300").Equal(lines[1].Net))
	assert.True(t, dec("18").Equal(lines[1].VAT))

	assert.True(t, dec("10").Equal(lines[2].Net))
	assert.True(t, dec("2.10").Equal(lines[2].VAT))
}

func TestNetOf_RedondeaACentimos(t *testing.T) {
	net := billing.NetOf(dec("100"), dec("21"))
	assert.Equal(t, "82.64", net.StringFixed(2))
}
