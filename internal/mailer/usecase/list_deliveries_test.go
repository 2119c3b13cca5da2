package usecase

import (
	"errors"
	"testing"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/goerror"
)

func TestListDeliveries(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.db.items = []entity.Delivery{
		{ID: 2, Recipient: "b@x.com", Status: entity.DeliveryStatusSent},
		{ID: 1, Recipient: "a@x.com", Status: entity.DeliveryStatusFailed},
	}

	// Act
	items, err := f.uc.ListDeliveries(t.Context(), ListDeliveriesInput{})

	// Assert
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(items))
	}
	if items[0].ID != 2 {
		t.Fatalf("expected newest first, got id %d", items[0].ID)
	}
}

func TestListDeliveriesInvalidInput(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	_, err := f.uc.ListDeliveries(t.Context(), ListDeliveriesInput{Limit: 101})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListDeliveriesRepoFailure(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.db.listErr = errors.New("db down")

	// Act
	_, err := f.uc.ListDeliveries(t.Context(), ListDeliveriesInput{})

	// Assert
	if err == nil {
		t.Fatal("expected error from repo failure")
	}
}
