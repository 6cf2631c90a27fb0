package notification

import (
	"context"
	"sync"
	"testing"

	"edushareqa/internal/pkg/pagination"
	"edushareqa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[int64][]Event
}

func (p *recordingPublisher) Push(userID int64, e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[int64][]Event)
	}
	p.events[userID] = append(p.events[userID], e)
}

func setupTestService(t *testing.T) (*Service, *recordingPublisher) {
	t.Helper()
	db := testutil.NewDB(t, &Notification{})
	pub := &recordingPublisher{}
	return NewService(NewRepository(db), pub, nil), pub
}

func TestNotifyAnswered(t *testing.T) {
	s, pub := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, s.NotifyAnswered(ctx, 7, 11, 21, "Big-O of quicksort"))

	items, total, unread, err := s.List(ctx, 7, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(1), unread)
	require.Len(t, items, 1)
	assert.Equal(t, TypeAnswer, items[0].Type)
	assert.Equal(t, int64(11), *items[0].QuestionID)
	assert.Equal(t, int64(21), *items[0].AnswerID)
	assert.Contains(t, items[0].Content, "Big-O of quicksort")

	require.Len(t, pub.events[7], 1)
	assert.Equal(t, EventNotification, pub.events[7][0].Type)
}

func TestMarkAsRead(t *testing.T) {
	s, pub := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, s.NotifyAnswered(ctx, 7, 1, 1, "q1"))
	require.NoError(t, s.NotifyAnswered(ctx, 7, 2, 2, "q2"))
	require.NoError(t, s.NotifyAnswered(ctx, 8, 3, 3, "q3"))

	items, _, _, err := s.List(ctx, 7, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.ErrorIs(t, s.MarkAsRead(ctx, items[0].ID, 8), ErrNotificationNotFound)
	require.NoError(t, s.MarkAsRead(ctx, items[0].ID, 7))

	unread, err := s.UnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	last := pub.events[7][len(pub.events[7])-1]
	assert.Equal(t, EventUnreadCount, last.Type)

	n, err := s.MarkAllAsRead(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	unread, err = s.UnreadCount(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = s.UnreadCount(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestList_Paged(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, s.NotifyAnswered(ctx, 3, i, i, "q"))
	}

	items, total, _, err := s.List(ctx, 3, pagination.Params{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 2)
}
