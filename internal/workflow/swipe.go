package workflow

import (
	"context"
	"log/slog"

	"github.com/saulmartinx/wolk/internal/domain"
	"github.com/saulmartinx/wolk/internal/model"
)

const (
	messageJobAccepted = "Job accepted! You'll be notified when employer responds."
	messageJobRejected = "Job rejected"
)

type SwipeInput struct {
	JobID  string
	UserID string
	Action string
}

type SwipeResult struct {
	Swipe           model.Swipe
	Message         string
	Match           bool
	RequiresPayment bool
}

// RecordSwipe stores the swipe as given. Job and user ids are not checked
// against their stores; any action other than accept counts as a rejection.
func (s *Service) RecordSwipe(ctx context.Context, in SwipeInput) (*SwipeResult, error) {
	swipe := model.Swipe{
		ID:        s.newID(),
		JobID:     in.JobID,
		UserID:    in.UserID,
		Action:    in.Action,
		CreatedAt: s.now().UTC(),
	}

	if err := s.swipes.CreateSwipe(ctx, &swipe); err != nil {
		s.logger.Error("Failed to record swipe",
			slog.String("job_id", in.JobID),
			slog.String("user_id", in.UserID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.Info("Swipe recorded",
		slog.String("swipe_id", swipe.ID),
		slog.String("job_id", swipe.JobID),
		slog.String("user_id", swipe.UserID),
		slog.String("action", swipe.Action),
	)

	s.publish(ctx, domain.RoutingKeySwipeRecorded, domain.Event{
		JobID:  swipe.JobID,
		UserID: swipe.UserID,
		Action: swipe.Action,
	})

	if swipe.Action == domain.SwipeActionAccept {
		return &SwipeResult{
			Swipe:           swipe,
			Message:         messageJobAccepted,
			Match:           true,
			RequiresPayment: true,
		}, nil
	}

	return &SwipeResult{
		Swipe:   swipe,
		Message: messageJobRejected,
	}, nil
}
