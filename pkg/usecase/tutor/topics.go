package tutor

import (
	"context"
	"errors"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/store"
)

// SaveTopic keeps an explanation in the saved topics
func (u *UseCase) SaveTopic(ctx context.Context, title, query string, exp *model.Explanation) (*model.SavedTopic, error) {
	topic, err := u.store.SaveTopic(ctx, title, query, exp)
	if err != nil {
		var serr *store.StorageError
		if !errors.As(err, &serr) || topic == nil {
			return nil, err
		}
		u.notifyError(ctx, "Not Saved", "Your saved topics could not be written to storage.")
		return topic, nil
	}

	u.notify(ctx, "Topic Saved!", "This topic has been added to your saved list.")
	return topic, nil
}

// RemoveSavedTopic drops a saved topic. Unknown ids are not an error.
func (u *UseCase) RemoveSavedTopic(ctx context.Context, id model.EntryID) error {
	if err := u.store.RemoveSavedTopic(ctx, id); err != nil {
		u.notifyError(ctx, "Error", "Failed to remove the topic. Please try again.")
		return err
	}

	u.notify(ctx, "Topic Removed", "The topic has been removed from your saved list.")
	return nil
}
