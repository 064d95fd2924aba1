package serviceiface

// Service is the contract every managed service implements so the app
// manager can bring the process up and down in sequence.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
