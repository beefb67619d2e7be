package usecase

import (
	"context"

	"go-jobboard-backend/pkg/security/antivirus"
)

// ResumeScanner checks uploaded resumes for malware before they are stored.
type ResumeScanner interface {
	Scan(ctx context.Context, filename string, data []byte) antivirus.ScanResult
}

// LoginGuard blocks an email after repeated failed logins.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (bool, error)
	Clear(ctx context.Context, email string) error
}

type options struct {
	scanner    ResumeScanner
	loginGuard LoginGuard
}

// Option configures optional collaborators of the auth and user usecases.
type Option func(*options)

func WithResumeScanner(s ResumeScanner) Option {
	return func(o *options) { o.scanner = s }
}

func WithLoginGuard(g LoginGuard) Option {
	return func(o *options) { o.loginGuard = g }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
