package iauditrepo

import (
	"context"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/auditlog"
)

// IAuditorRepository is interface for auditor repository.
type IAuditorRepository interface {
	LogSubmission(ctx context.Context, submission auditlog.Submission) error
}
