package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Requests() RequestRepository
	StatusOutbox() StatusOutboxRepository
}
