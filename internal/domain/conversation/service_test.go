package conversation

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swampy-server/internal/utils/platformerrors"
)

type memoryRepo struct {
	nextID uint
	items  map[uint]*Conversation
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[uint]*Conversation{}}
}

func (r *memoryRepo) Create(_ context.Context, conv *Conversation) error {
	r.nextID++
	conv.ID = r.nextID
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	clone := *conv
	r.items[conv.ID] = &clone
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uint) (*Conversation, error) {
	conv, ok := r.items[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "test-repo-not-found")
	}
	clone := *conv
	return &clone, nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*Conversation, error) {
	var out []*Conversation
	for _, conv := range r.items {
		if conv.UserID == userID {
			clone := *conv
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, conv *Conversation) error {
	clone := *conv
	r.items[conv.ID] = &clone
	return nil
}

func (r *memoryRepo) Touch(_ context.Context, id uint, at time.Time) error {
	if conv, ok := r.items[id]; ok {
		conv.UpdatedAt = at
	}
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

type memoryMessageRepo struct {
	nextID uint
	items  map[uint]*Message
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{items: map[uint]*Message{}}
}

func (r *memoryMessageRepo) Create(_ context.Context, msg *Message) error {
	r.nextID++
	msg.ID = r.nextID
	msg.CreatedAt = time.Now().UTC()
	clone := *msg
	r.items[msg.ID] = &clone
	return nil
}

func (r *memoryMessageRepo) FindByID(ctx context.Context, id uint) (*Message, error) {
	msg, ok := r.items[id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "message not found", nil, "test-msg-not-found")
	}
	clone := *msg
	return &clone, nil
}

func (r *memoryMessageRepo) ListByConversation(_ context.Context, conversationID uint) ([]Message, error) {
	var out []Message
	for _, msg := range r.items {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (r *memoryMessageRepo) Delete(_ context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *memoryMessageRepo) DeleteByConversation(_ context.Context, conversationID uint) error {
	for id, msg := range r.items {
		if msg.ConversationID == conversationID {
			delete(r.items, id)
		}
	}
	return nil
}

func newTestService() (Service, *memoryRepo, *memoryMessageRepo) {
	convs := newMemoryRepo()
	msgs := newMemoryMessageRepo()
	return NewService(convs, msgs, zerolog.Nop()), convs, msgs
}

func TestCreateTrimsTitle(t *testing.T) {
	svc, _, _ := newTestService()

	conv, err := svc.Create(context.Background(), "user-1", "  hello world  ")

	require.NoError(t, err)
	assert.Equal(t, "hello world", conv.Title)
	assert.Equal(t, "user-1", conv.UserID)
	assert.NotZero(t, conv.ID)
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), "user-1", "   ")

	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
}

func TestListDefaultsAndCaps(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, "user-1", "thread")
		require.NoError(t, err)
	}
	require.Len(t, repo.items, 15)

	// zero limit falls back to the default of 10
	list, err := svc.List(ctx, "user-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 10)

	// oversized limits are capped rather than rejected
	list, err = svc.List(ctx, "user-1", 500, 0)
	require.NoError(t, err)
	assert.Len(t, list, 15)
}

func TestListScopedToOwner(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, "user-1", "mine")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", "theirs")
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-1", 10, 0)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Title)
}

func TestGetWithMessagesHidesForeignThreads(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	conv, err := svc.Create(ctx, "user-1", "secret")
	require.NoError(t, err)

	_, _, err = svc.GetWithMessages(ctx, "user-2", conv.ID)

	require.Error(t, err)
	// foreign threads look identical to missing ones
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))
}

func TestAppendMessageValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	conv, err := svc.Create(ctx, "user-1", "thread")
	require.NoError(t, err)

	_, err = svc.AppendMessage(ctx, "user-1", conv.ID, AppendMessageParams{Role: "system", Content: "x"})
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))

	_, err = svc.AppendMessage(ctx, "user-1", conv.ID, AppendMessageParams{Role: RoleUser, Content: "  "})
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
}

func TestAppendMessageBumpsActivity(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	conv, err := svc.Create(ctx, "user-1", "thread")
	require.NoError(t, err)
	before := repo.items[conv.ID].UpdatedAt

	time.Sleep(5 * time.Millisecond)
	msg, err := svc.AppendMessage(ctx, "user-1", conv.ID, AppendMessageParams{Role: RoleUser, Content: "hello"})

	require.NoError(t, err)
	assert.NotZero(t, msg.Timestamp)
	assert.True(t, repo.items[conv.ID].UpdatedAt.After(before))
}

func TestDeleteRemovesMessages(t *testing.T) {
	svc, repo, msgs := newTestService()
	ctx := context.Background()
	conv, err := svc.Create(ctx, "user-1", "thread")
	require.NoError(t, err)
	_, err = svc.AppendMessage(ctx, "user-1", conv.ID, AppendMessageParams{Role: RoleUser, Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", conv.ID))

	assert.Empty(t, repo.items)
	assert.Empty(t, msgs.items)
}

func TestDeleteMessageChecksOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	conv, err := svc.Create(ctx, "user-1", "thread")
	require.NoError(t, err)
	msg, err := svc.AppendMessage(ctx, "user-1", conv.ID, AppendMessageParams{Role: RoleUser, Content: "hello"})
	require.NoError(t, err)

	err = svc.DeleteMessage(ctx, "user-2", msg.ID)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))

	require.NoError(t, svc.DeleteMessage(ctx, "user-1", msg.ID))
}

func TestUpdateTitleValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	conv, err := svc.Create(ctx, "user-1", "thread")
	require.NoError(t, err)

	empty := "   "
	_, err = svc.Update(ctx, "user-1", conv.ID, UpdateParams{Title: &empty})
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))

	name := "renamed"
	updated, err := svc.Update(ctx, "user-1", conv.ID, UpdateParams{Title: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}
