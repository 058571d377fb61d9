package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	g := New()

	id := g.NewID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	assert.NotEqual(t, id, g.NewID())
}

func TestNewReceipt(t *testing.T) {
	g := New()

	for i := 0; i < 100; i++ {
		receipt := g.NewReceipt()
		assert.Len(t, receipt, receiptLength)
		assert.True(t, ValidReceipt(receipt), "receipt %s failed check digit validation", receipt)
	}
}

func TestValidReceipt(t *testing.T) {
	assert.True(t, ValidReceipt("79927398713"))
	assert.False(t, ValidReceipt("79927398710"))
	assert.False(t, ValidReceipt("not-a-number"))
}
