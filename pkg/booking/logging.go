package booking

import "context"

const (
	operationCreateReservation = "create_reservation"
	operationUpdateReservation = "update_reservation"
	operationDeleteReservation = "delete_reservation"
	operationUpdateStatus      = "update_reservation_status"
	operationCreatePark        = "create_park"
	operationUpdatePark        = "update_park"
	operationDeletePark        = "delete_park"
	operationLogin             = "admin_login"
	operationStatusOK          = "ok"
	operationStatusError       = "error"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing booking operation.
type OperationLog struct {
	Operation string
	Subject   string
	EntityID  int64
	Status    string
	Error     error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithCredentialVerifier overrides the password comparison implementation.
func WithCredentialVerifier(verifier CredentialVerifier) ServiceOption {
	return func(service *Service) {
		if verifier != nil {
			service.verifier = verifier
		}
	}
}
