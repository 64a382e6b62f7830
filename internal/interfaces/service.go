package interfaces

// Service interface defines the methods that every kind of interface exposing
// the pool, whether REST, websocket, or whatever must be compliant with.
type Service interface {
	Start() error
	Stop()
}
