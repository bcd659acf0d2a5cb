package services

import "cso-scholarhub/internal/adapters/persistence/models"

// Note: ContractService implementation is in contract_service.go
// Note: StudentService implementation is in student_service.go

// ContractNotifier receives a published contract for best-effort delivery.
// Implementations must not block and must not surface failures to the caller.
type ContractNotifier interface {
	NotifyContractPublished(contract *models.Contract, scholarshipName string)
}

// ViewRefresher is signalled after a successful mutation so dependent read
// views (live dashboards) refresh. Best-effort.
type ViewRefresher interface {
	MarkStale(path string)
}
