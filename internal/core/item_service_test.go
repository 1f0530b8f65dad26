package core

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/imaging"
	"campustrace-backend-go/internal/models"
)

var (
	alice = models.Principal{UID: "alice", Email: "alice@campus.edu", Name: "Alice"}
	bob   = models.Principal{UID: "bob", Email: "bob@campus.edu", Name: "Bob"}
)

type itemFixture struct {
	store   *db.MemoryStore
	matcher *fakeMatcher
	images  *fakeImages
	events  *recordingEvents
	logs    *observer.ObservedLogs
	svc     ItemService
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	obsCore, logs := observer.New(zapcore.DebugLevel)
	f := &itemFixture{
		store:   db.NewMemoryStore(),
		matcher: &fakeMatcher{},
		images:  &fakeImages{uri: "data:image/png;base64,AAAA"},
		events:  &recordingEvents{},
		logs:    logs,
	}
	f.svc = NewItemService(f.store.Items(), f.matcher, f.images, f.events, zap.New(obsCore))
	return f
}

func reportReq(title, itemType string) models.ReportItemRequest {
	return models.ReportItemRequest{
		Title:       title,
		Description: "Blue steel bottle with a dent near the cap",
		Category:    models.CategoryOther,
		Location:    "Main library, 2nd floor",
		Type:        itemType,
	}
}

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return imaging.EncodeDataURI("image/png", buf.Bytes())
}

func TestReportItem_StoresOpenItemForPoster(t *testing.T) {
	f := newItemFixture(t)

	item, err := f.svc.ReportItem(context.Background(), alice, reportReq("Blue Water Bottle", models.TypeLost))
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.StatusOpen, item.Status)
	assert.Equal(t, "alice", item.UserID)
	assert.Equal(t, "Alice", item.PosterName)
	assert.Equal(t, "data:image/png;base64,AAAA", item.ImageURL)
	assert.Equal(t, 1, f.images.calls)

	stored, err := f.store.Items().GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, stored.Status)
	assert.Equal(t, []string{models.EventItemReported}, f.events.types())
}

func TestReportItem_ValidationRejectsBeforeAnyCall(t *testing.T) {
	f := newItemFixture(t)

	cases := map[string]func(*models.ReportItemRequest){
		"empty title":      func(r *models.ReportItemRequest) { r.Title = "  " },
		"empty location":   func(r *models.ReportItemRequest) { r.Location = "" },
		"unknown category": func(r *models.ReportItemRequest) { r.Category = "umbrellas" },
		"bad type":         func(r *models.ReportItemRequest) { r.Type = "stolen" },
		"bad photo":        func(r *models.ReportItemRequest) { r.Photo = "ftp://example.com/a.png" },
		"header in title":  func(r *models.ReportItemRequest) { r.Title = "Keys\r\nBcc: someone@example.com" },
		"newline location": func(r *models.ReportItemRequest) { r.Location = "Gym\nLibrary" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := reportReq("Keys", models.TypeLost)
			mutate(&req)
			_, err := f.svc.ReportItem(context.Background(), alice, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := f.store.Items().List(context.Background(), db.OpenItemsQuery())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, f.images.calls)
	assert.Empty(t, f.events.types())
}

func TestReportItem_SynthesisFailureStillSucceeds(t *testing.T) {
	f := newItemFixture(t)
	f.images.err = errors.New("model overloaded")

	item, err := f.svc.ReportItem(context.Background(), alice, reportReq("Keys", models.TypeFound))
	require.NoError(t, err)
	assert.Empty(t, item.ImageURL)
	assert.Equal(t, 1, f.logs.FilterMessage("Image synthesis failed, storing item without image").Len())
}

func TestReportItem_UserPhotoSkipsSynthesis(t *testing.T) {
	f := newItemFixture(t)

	req := reportReq("Laptop", models.TypeFound)
	req.Photo = pngDataURI(t, 2000, 1000)
	item, err := f.svc.ReportItem(context.Background(), bob, req)
	require.NoError(t, err)
	assert.Zero(t, f.images.calls)

	mime, data, err := imaging.ParseDataURI(item.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imaging.MaxDimension, cfg.Width)

	req.Photo = "https://cdn.campus.edu/laptop.jpg"
	item, err = f.svc.ReportItem(context.Background(), bob, req)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.campus.edu/laptop.jpg", item.ImageURL)
}

func TestReportItem_NoSynthesizer(t *testing.T) {
	store := db.NewMemoryStore()
	svc := NewItemService(store.Items(), nil, nil, &recordingEvents{}, zap.NewNop())

	item, err := svc.ReportItem(context.Background(), alice, reportReq("Keys", models.TypeLost))
	require.NoError(t, err)
	assert.Empty(t, item.ImageURL)
}

func TestFeed_FiltersAndSorts(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	first, err := f.svc.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)
	keys := reportReq("Keys", models.TypeFound)
	keys.Category = models.CategoryKeys
	second, err := f.svc.ReportItem(ctx, bob, keys)
	require.NoError(t, err)
	third, err := f.svc.ReportItem(ctx, bob, reportReq("Scarf", models.TypeFound))
	require.NoError(t, err)
	_, err = f.svc.ResolveItem(ctx, "bob", third.ID)
	require.NoError(t, err)

	feed, err := f.svc.Feed(ctx, models.FeedFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, ids(feed))

	feed, err = f.svc.Feed(ctx, models.FeedFilter{Sort: "oldest"})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, ids(feed))

	feed, err = f.svc.Feed(ctx, models.FeedFilter{Category: models.CategoryKeys})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, ids(feed))

	feed, err = f.svc.Feed(ctx, models.FeedFilter{Type: models.TypeLost})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, ids(feed))

	_, err = f.svc.Feed(ctx, models.FeedFilter{Sort: "random"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Feed(ctx, models.FeedFilter{Category: "pets"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserItems_IncludesClosed(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	a, err := f.svc.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)
	_, err = f.svc.ReportItem(ctx, bob, reportReq("Keys", models.TypeFound))
	require.NoError(t, err)
	_, err = f.svc.ResolveItem(ctx, "alice", a.ID)
	require.NoError(t, err)

	mine, err := f.svc.UserItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.StatusClosed, mine[0].Status)
}

func TestGetItem_NotFound(t *testing.T) {
	f := newItemFixture(t)

	_, err := f.svc.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = f.svc.GetItem(context.Background(), "")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestResolveItem_OwnerOnlyAndIdempotent(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	item, err := f.svc.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)

	_, err = f.svc.ResolveItem(ctx, "bob", item.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	stored, err := f.svc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, stored.Status)

	resolved, err := f.svc.ResolveItem(ctx, "alice", item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, resolved.Status)

	again, err := f.svc.ResolveItem(ctx, "alice", item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, again.Status)

	assert.Equal(t, []string{models.EventItemReported, models.EventItemResolved}, f.events.types())

	_, err = f.svc.ResolveItem(ctx, "alice", "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSuggestMatches_BlueWaterBottle(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	lost, err := f.svc.ReportItem(ctx, alice, reportReq("Blue Water Bottle", models.TypeLost))
	require.NoError(t, err)
	found, err := f.svc.ReportItem(ctx, bob, reportReq("Blue bottle", models.TypeFound))
	require.NoError(t, err)
	_, err = f.svc.ReportItem(ctx, bob, reportReq("Another lost bottle", models.TypeLost))
	require.NoError(t, err)

	score := 0.92
	f.matcher.result = []models.MatchSuggestion{{ID: found.ID, Reason: "Same bottle, same floor", Score: &score}}

	got, err := f.svc.SuggestMatches(ctx, lost.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, found.ID, got[0].ID)

	assert.Equal(t, lost.ID, f.matcher.subject.ID)
	assert.Equal(t, models.TypeLost, f.matcher.subject.Status)
	require.Len(t, f.matcher.candidates, 1)
	assert.Equal(t, found.ID, f.matcher.candidates[0].ID)
	assert.Equal(t, models.TypeFound, f.matcher.candidates[0].Status)
}

func TestSuggestMatches_NoCandidatesNoCall(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	lost, err := f.svc.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)

	got, err := f.svc.SuggestMatches(ctx, lost.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, f.matcher.calls)
}

func TestSuggestMatches_ClosedItemAndFailures(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	lost, err := f.svc.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)
	_, err = f.svc.ReportItem(ctx, bob, reportReq("Bottle", models.TypeFound))
	require.NoError(t, err)

	f.matcher.err = errors.New("invalid JSON")
	got, err := f.svc.SuggestMatches(ctx, lost.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, f.logs.FilterMessage("Match suggestion failed").Len())

	_, err = f.svc.ResolveItem(ctx, "alice", lost.ID)
	require.NoError(t, err)
	f.matcher.calls = 0
	got, err = f.svc.SuggestMatches(ctx, lost.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, f.matcher.calls)

	_, err = f.svc.SuggestMatches(ctx, "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSuggestMatches_CandidateLimit(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()

	lost, err := f.svc.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)
	for i := 0; i < db.CandidateLimit+5; i++ {
		_, err := f.svc.ReportItem(ctx, bob, reportReq("Bottle", models.TypeFound))
		require.NoError(t, err)
	}

	_, err = f.svc.SuggestMatches(ctx, lost.ID)
	require.NoError(t, err)
	assert.Len(t, f.matcher.candidates, db.CandidateLimit)
}

func ids(items []*models.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
