package service

// Broadcaster pushes real-time events to connected operators (avoids
// import cycle with the ws transport)
type Broadcaster interface {
	BroadcastToTenant(tenantID string, msgType string, payload interface{})
}
