package dto

// ExpiryBucket cantidad disponible agrupada por estado de caducidad.
type ExpiryBucket struct {
	State    string `json:"state"`
	Quantity int    `json:"quantity"`
	Batches  int    `json:"batches"`
}

// ExpiryDashboardResponse tablero de caducidad para supervisores.
type ExpiryDashboardResponse struct {
	CriticalDays    int             `json:"critical_days"`
	Buckets         []ExpiryBucket  `json:"buckets"`
	CriticalBatches []BatchResponse `json:"critical_batches"`
	ExpiredBatches  []BatchResponse `json:"expired_batches"`
}
