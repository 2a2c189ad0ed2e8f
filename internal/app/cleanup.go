package app

import (
	"fmt"
	"io"
	"time"

	"github.com/storewire/storewire/internal/domain"
)

// CleanupClient defines dependencies required by the cleanup command.
type CleanupClient interface {
	List(filter domain.NotificationFilter) []domain.Notification
	RemoveOlderThan(cutoff string) (int, error)
}

// CleanupInput represents cleanup command inputs after flag parsing.
type CleanupInput struct {
	Days   int
	DryRun bool
	Output io.Writer
}

// CleanupUseCase removes old notifications to keep the snapshot small.
type CleanupUseCase struct {
	store CleanupClient
	now   func() time.Time
}

// NewCleanupUseCase creates a cleanup use-case.
func NewCleanupUseCase(store CleanupClient) *CleanupUseCase {
	if store == nil {
		panic("NewCleanupUseCase: store dependency cannot be nil")
	}
	return &CleanupUseCase{store: store, now: time.Now}
}

// Execute removes notifications older than the configured horizon.
func (u *CleanupUseCase) Execute(input CleanupInput) error {
	if input.Days <= 0 {
		return fmt.Errorf("cleanup: days must be a positive integer")
	}
	cutoff := u.now().UTC().AddDate(0, 0, -input.Days).Format(time.RFC3339)

	if input.DryRun {
		candidates := u.store.List(domain.NotificationFilter{OlderThan: cutoff})
		fmt.Fprintf(input.Output, "would remove %d notification(s) older than %d day(s)\n", len(candidates), input.Days)
		return nil
	}

	removed, err := u.store.RemoveOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	fmt.Fprintf(input.Output, "removed %d notification(s) older than %d day(s)\n", removed, input.Days)
	return nil
}
