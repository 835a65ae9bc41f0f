package service

import (
	"Byndlink/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationUpsertKeepsOneRowPerSubmission(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	first := time.Now().Add(-time.Hour)
	second := time.Now()

	require.NoError(t, repo.Upsert(ctx, &model.Notification{
		ID: 1, UserID: ownerUserId, SubmissionID: 10,
		CompanyName: "Acme", PositionName: "设计师", LastViewedAt: first,
	}))
	require.NoError(t, repo.MarkRead(ctx, ownerUserId, nil))

	// 再次被查看：刷新时间并重新置为未读
	require.NoError(t, repo.Upsert(ctx, &model.Notification{
		UserID: ownerUserId, SubmissionID: 10,
		CompanyName: "Acme", PositionName: "设计师", LastViewedAt: second,
	}))

	list, err := svc.List(ctx, ownerUserId)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
	assert.WithinDuration(t, second, *list[0].LastViewedAt, time.Second)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.Notification{
		ID: 1, UserID: ownerUserId, SubmissionID: 10, LastViewedAt: time.Now(),
	}))
	require.NoError(t, repo.Upsert(ctx, &model.Notification{
		ID: 2, UserID: ownerUserId, SubmissionID: 11, LastViewedAt: time.Now(),
	}))

	require.NoError(t, svc.MarkRead(ctx, ownerUserId, []uint64{1}))

	list, err := svc.List(ctx, ownerUserId)
	require.NoError(t, err)
	read := 0
	for _, notification := range list {
		if notification.IsRead {
			read++
		}
	}
	assert.Equal(t, 1, read)
}
