package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecreaseStock(t *testing.T) {
	p := &Product{ID: "p1", Stock: 5}

	require.NoError(t, p.DecreaseStock(3))
	assert.Equal(t, 2, p.Stock)

	require.NoError(t, p.DecreaseStock(2))
	assert.Equal(t, 0, p.Stock)
}

func TestDecreaseStock_Insufficient(t *testing.T) {
	p := &Product{ID: "p1", Stock: 2}

	err := p.DecreaseStock(3)

	var insErr *InsufficientStockError
	require.ErrorAs(t, err, &insErr)
	assert.Equal(t, "p1", insErr.ProductID)
	assert.Equal(t, 3, insErr.Requested)
	assert.Equal(t, 2, insErr.Available)
	assert.Equal(t, 2, p.Stock, "failed decrement must not change stock")
}

func TestIncreaseStock(t *testing.T) {
	p := &Product{Stock: 1}
	p.IncreaseStock(4)
	assert.Equal(t, 5, p.Stock)
}
