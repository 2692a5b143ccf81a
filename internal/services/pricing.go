package services

import (
	"math"

	"lumera_back_end/internal/config"
)

// Totals est le détail de prix d'une commande. Le calcul vit ici et
// nulle part ailleurs : la commande, l'email de confirmation et la
// facture PDF lisent tous les mêmes montants.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals applique la TVA et les frais de livraison sur un
// sous-total. Livraison offerte au-dessus du seuil.
func ComputeTotals(subtotal float64) Totals {
	taxRate := config.GetEnvFloat("TAX_RATE", 0.1)
	shippingFlat := config.GetEnvFloat("SHIPPING_FLAT", 4.99)
	freeShippingFrom := config.GetEnvFloat("FREE_SHIPPING_THRESHOLD", 50)

	tax := round2(subtotal * taxRate)

	shipping := shippingFlat
	if subtotal >= freeShippingFrom || subtotal == 0 {
		shipping = 0
	}

	return Totals{
		Subtotal: round2(subtotal),
		Tax:      tax,
		Shipping: shipping,
		Total:    round2(subtotal + tax + shipping),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
