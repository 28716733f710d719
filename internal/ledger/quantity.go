// Package ledger holds the pure quantity and money arithmetic shared by the
// settlement engine and the read views. Nothing here touches storage.
package ledger

import "rentout-backend/internal/domain"

type ItemQuantity struct {
	ReturnedQuantity  int32 `json:"returned_quantity"`
	RemainingQuantity int32 `json:"remaining_quantity"`
}

// ItemQuantityInfo sums the return lines recorded against a rent-out item.
func ItemQuantityInfo(item domain.RentOutItem) ItemQuantity {
	var returned int32
	for _, ri := range item.ReturnItems {
		returned += ri.Quantity
	}
	return ItemQuantity{
		ReturnedQuantity:  returned,
		RemainingQuantity: item.Quantity - returned,
	}
}

type ProductQuantity struct {
	CurrentlyRentedQuantity int32 `json:"currently_rented_quantity"`
	RemainingQuantity       int32 `json:"remaining_quantity"`
}

// ProductQuantityInfo computes how much of a product is out with customers.
// Only active rent-outs that still hold stock count; returned or deleted
// orders are skipped whatever the caller passes in.
func ProductQuantityInfo(product domain.Product, rentOuts []domain.RentOut) ProductQuantity {
	var rented int32
	for _, rt := range rentOuts {
		if !rt.Lifecycle.IsActive() || !rt.Status.HoldsStock() {
			continue
		}
		for _, item := range rt.Items {
			if item.ProductID != product.ID {
				continue
			}
			rented += ItemQuantityInfo(item).RemainingQuantity
		}
	}
	return ProductQuantity{
		CurrentlyRentedQuantity: rented,
		RemainingQuantity:       product.Quantity - rented,
	}
}
