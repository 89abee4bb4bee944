package usecase

import (
	"context"
	"strings"

	"postboard/pkg/apperror"
	"postboard/pkg/logger"
	"postboard/pkg/queue"
	"postboard/pkg/session"
)

// Sessions starts and ends login sessions. *session.Manager satisfies it.
type Sessions interface {
	Create(ctx context.Context, userID, username string) (*session.Session, string, error)
	Destroy(ctx context.Context, token string) error
}

// ActivityPublisher delivers activity notifications. A nil publisher turns
// notifications off.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, activity queue.Activity) error
}

// requireFields takes name/value pairs and reports every empty value in
// one validation error.
func requireFields(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return apperror.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// publishActivity sends activity if a publisher is configured. Failures are
// logged and never fail the request that caused them.
func publishActivity(ctx context.Context, publisher ActivityPublisher, log *logger.Logger, activity queue.Activity) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishActivity(ctx, activity); err != nil {
		log.Error("[ACTIVITY] Failed to publish %s activity for post=%s: %v", activity.Type, activity.PostID, err)
	}
}
