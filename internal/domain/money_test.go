package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(50000), ToMinorUnits(500.00))
	assert.Equal(t, int64(12999), ToMinorUnits(129.99))
	assert.Equal(t, int64(749900), ToMinorUnits(7499.00))
	assert.Equal(t, int64(1), ToMinorUnits(0.01))
	assert.Equal(t, int64(29), ToMinorUnits(0.29))
}
