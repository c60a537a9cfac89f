package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyMovement(t *testing.T) {
	// Purchases add
	assert.Equal(t, 15.0, ApplyMovement(10, MovementPurchase, 5))

	// Usage and waste subtract
	assert.Equal(t, 7.0, ApplyMovement(10, MovementUsage, 3))
	assert.Equal(t, 9.5, ApplyMovement(10, MovementWaste, 0.5))

	// Adjustments and corrections carry their sign
	assert.Equal(t, 12.0, ApplyMovement(10, MovementAdjustment, 2))
	assert.Equal(t, 8.0, ApplyMovement(10, MovementAdjustment, -2))
	assert.Equal(t, 4.0, ApplyMovement(10, MovementCorrection, -6))
}

func TestApplyMovementIgnoresSignOnUnsignedTypes(t *testing.T) {
	// A negative quantity must not flip the direction: a usage of -5
	// still drains stock and a purchase of -5 still adds it.
	assert.Equal(t, 5.0, ApplyMovement(10, MovementUsage, -5))
	assert.Equal(t, 7.0, ApplyMovement(10, MovementWaste, -3))
	assert.Equal(t, 15.0, ApplyMovement(10, MovementPurchase, -5))
}

func TestApplyMovementClampsAtZero(t *testing.T) {
	// Overshooting usage never goes negative
	assert.Equal(t, 0.0, ApplyMovement(3, MovementUsage, 10))
	assert.Equal(t, 0.0, ApplyMovement(3, MovementWaste, 5))
	assert.Equal(t, 0.0, ApplyMovement(3, MovementCorrection, -8))
	assert.Equal(t, 0.0, ApplyMovement(0, MovementUsage, 1))
}

func TestMovementTypeClassification(t *testing.T) {
	assert.True(t, MovementPurchase.AddsStock())
	assert.False(t, MovementUsage.AddsStock())
	assert.False(t, MovementWaste.AddsStock())

	assert.True(t, MovementAdjustment.Signed())
	assert.True(t, MovementCorrection.Signed())
	assert.False(t, MovementPurchase.Signed())
	assert.False(t, MovementUsage.Signed())
}
