package domain

import "context"

// AuditLogger is the interface for writing audit entries.
type AuditLogger interface {
	LogAudit(ctx context.Context, entry AuditEntry) error
}

// AuditEntry records one safety decision made during an invocation.
type AuditEntry struct {
	RunID   string
	Action  string // generated | allowed | disallowed_tool | disallowed_operator | malformed | confirm_yes | confirm_no
	Tool    string
	Command string
	Result  string // allowed | blocked | confirmed | denied
	Details string
}
