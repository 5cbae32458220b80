package ports

// Ingress defines the interface for a message ingress surface.
type Ingress interface {
	// Start starts serving inbound messages.
	Start() error

	// Stop shuts the surface down gracefully.
	Stop() error
}
