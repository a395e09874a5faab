package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, status := range []OrderStatus{
		StatusProcessing,
		StatusTransferred,
		StatusDelivered,
		StatusProcessingRefund,
		StatusRefundSuccess,
	} {
		assert.True(t, IsValidStatus(status), "expected %q to be known", status)
	}

	assert.False(t, IsValidStatus("Shipped"))
	assert.False(t, IsValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]OrderStatus{
		{StatusProcessing, StatusTransferred},
		{StatusTransferred, StatusDelivered},
		{StatusDelivered, StatusProcessingRefund},
		{StatusProcessingRefund, StatusRefundSuccess},
	}
	for _, pair := range allowed {
		assert.True(t, CanTransition(pair[0], pair[1]), "%q -> %q should be allowed", pair[0], pair[1])
	}

	denied := [][2]OrderStatus{
		{StatusProcessing, StatusDelivered},
		{StatusProcessing, StatusProcessing},
		{StatusDelivered, StatusProcessing},
		{StatusTransferred, StatusProcessingRefund},
		{StatusRefundSuccess, StatusProcessing},
		{StatusRefundSuccess, StatusRefundSuccess},
		{StatusDelivered, "Shipped"},
	}
	for _, pair := range denied {
		assert.False(t, CanTransition(pair[0], pair[1]), "%q -> %q should be rejected", pair[0], pair[1])
	}
}
