package model

// StatusDetails 狀態顯示用資訊
type StatusDetails struct {
	Value       OrderStatus `json:"value"`
	Label       string      `json:"label"`
	Color       string      `json:"color"`
	Icon        string      `json:"icon"`
	Description string      `json:"description"`
}

var orderStatusDetails = []StatusDetails{
	{
		Value:       OrderStatusPending,
		Label:       "En attente",
		Color:       "#f6ad55",
		Icon:        "clock",
		Description: "Votre commande est en attente de confirmation",
	},
	{
		Value:       OrderStatusConfirmed,
		Label:       "Confirmée",
		Color:       "#4299e1",
		Icon:        "checkCircle",
		Description: "Votre commande a été confirmée",
	},
	{
		Value:       OrderStatusShipping,
		Label:       "En cours de livraison",
		Color:       "#9f7aea",
		Icon:        "truck",
		Description: "Votre commande est en route",
	},
	{
		Value:       OrderStatusShipped,
		Label:       "Livrée",
		Color:       "#48bb78",
		Icon:        "check",
		Description: "Votre commande a été livrée",
	},
	{
		Value:       OrderStatusCancelled,
		Label:       "Annulée",
		Color:       "#e53e3e",
		Icon:        "close",
		Description: "Votre commande a été annulée",
	},
}

func LookupStatusDetails(status OrderStatus) (StatusDetails, bool) {
	for _, d := range orderStatusDetails {
		if d.Value == status {
			return d, true
		}
	}
	return StatusDetails{}, false
}

func AllStatusDetails() []StatusDetails {
	return append([]StatusDetails(nil), orderStatusDetails...)
}
