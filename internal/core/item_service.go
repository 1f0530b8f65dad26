package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/imaging"
	"campustrace-backend-go/internal/models"
)

// synthesisTimeout bounds the image generation call made while reporting.
const synthesisTimeout = 45 * time.Second

// itemService implements the ItemService interface.
type itemService struct {
	items    db.ItemRepository
	matcher  Matcher          // nil disables suggestions
	images   ImageSynthesizer // nil disables illustrations
	events   ItemEvents
	validate *validator.Validate
	log      *zap.Logger
}

// NewItemService creates a new ItemService instance.
// matcher and images may be nil when generative AI is not configured.
func NewItemService(items db.ItemRepository, matcher Matcher, images ImageSynthesizer, events ItemEvents, log *zap.Logger) ItemService {
	return &itemService{
		items:    items,
		matcher:  matcher,
		images:   images,
		events:   events,
		validate: validator.New(),
		log:      log,
	}
}

// ReportItem validates req, resolves the item photo and stores a new open item.
// Validation happens before any network call.
func (s *itemService) ReportItem(ctx context.Context, poster models.Principal, req models.ReportItemRequest) (*models.Item, error) {
	if poster.UID == "" {
		return nil, fmt.Errorf("%w: missing poster", ErrValidation)
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if strings.ContainsFunc(req.Title, unicode.IsControl) || strings.ContainsFunc(req.Location, unicode.IsControl) {
		return nil, fmt.Errorf("%w: title and location must be a single line", ErrValidation)
	}

	imageURL, err := s.photo(req.Photo)
	if err != nil {
		return nil, err
	}
	if imageURL == "" {
		imageURL = s.illustrate(ctx, req)
	}

	item := &models.Item{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Type:        req.Type,
		Status:      models.StatusOpen,
		ImageURL:    imageURL,
		UserID:      poster.UID,
		PosterName:  poster.DisplayName(),
		PosterEmail: poster.Email,
	}
	id, err := s.items.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	item.ID = id

	s.log.Info("Item reported",
		zap.String("itemID", id),
		zap.String("userID", poster.UID),
		zap.String("type", item.Type),
		zap.Bool("hasImage", imageURL != ""))
	s.events.Publish(ctx, models.ItemEvent{
		Type:   models.EventItemReported,
		ItemID: id,
		UserID: poster.UID,
		Title:  item.Title,
		At:     time.Now().UTC(),
	})
	return item, nil
}

// photo normalises a user-supplied photo. Data URIs are downscaled; hosted
// http(s) URLs are stored as given.
func (s *itemService) photo(photo string) (string, error) {
	photo = strings.TrimSpace(photo)
	switch {
	case photo == "":
		return "", nil
	case imaging.IsDataURI(photo):
		out, err := imaging.NormalizeDataURI(photo)
		if err != nil {
			return "", fmt.Errorf("%w: photo: %v", ErrValidation, err)
		}
		return out, nil
	case strings.HasPrefix(photo, "https://") || strings.HasPrefix(photo, "http://"):
		return photo, nil
	default:
		return "", fmt.Errorf("%w: photo must be a data URI or an http(s) URL", ErrValidation)
	}
}

// illustrate asks the image synthesizer for a picture. Any failure yields "".
func (s *itemService) illustrate(ctx context.Context, req models.ReportItemRequest) string {
	if s.images == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	uri, err := s.images.Synthesize(ctx, req.Title, req.Description, req.Category)
	if err != nil {
		s.log.Warn("Image synthesis failed, storing item without image",
			zap.String("category", req.Category), zap.Error(err))
		return ""
	}
	return uri
}

func (s *itemService) Feed(ctx context.Context, filter models.FeedFilter) ([]*models.Item, error) {
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, filter.Category)
	}
	if filter.Type != "" && filter.Type != models.TypeLost && filter.Type != models.TypeFound {
		return nil, fmt.Errorf("%w: type must be lost or found", ErrValidation)
	}
	if filter.Sort != "" && filter.Sort != "newest" && filter.Sort != "oldest" {
		return nil, fmt.Errorf("%w: sort must be newest or oldest", ErrValidation)
	}

	items, err := s.items.List(ctx, db.OpenItemsQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list open items: %w", err)
	}

	out := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		out = append(out, item)
	}
	if filter.Sort == "oldest" {
		slices.SortStableFunc(out, func(a, b *models.Item) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	}
	return out, nil
}

func (s *itemService) UserItems(ctx context.Context, userID string) ([]*models.Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrValidation)
	}
	items, err := s.items.List(ctx, db.UserItemsQuery(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list items for user '%s': %w", userID, err)
	}
	return items, nil
}

func (s *itemService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	if itemID == "" {
		return nil, ErrItemNotFound
	}
	item, err := s.items.GetByID(ctx, itemID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item '%s': %w", itemID, err)
	}
	return item, nil
}

// ResolveItem closes an open item. Only the poster may do this; resolving an
// already closed item returns it unchanged and emits no event.
func (s *itemService) ResolveItem(ctx context.Context, userID, itemID string) (*models.Item, error) {
	before, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if before.UserID != userID {
		return nil, ErrForbidden
	}
	if !before.IsOpen() {
		return before, nil
	}

	item, err := s.items.Resolve(ctx, itemID, userID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil, ErrItemNotFound
	case errors.Is(err, db.ErrForbidden):
		return nil, ErrForbidden
	case err != nil:
		return nil, fmt.Errorf("failed to resolve item '%s': %w", itemID, err)
	}

	s.log.Info("Item resolved", zap.String("itemID", itemID), zap.String("userID", userID))
	s.events.Publish(ctx, models.ItemEvent{
		Type:   models.EventItemResolved,
		ItemID: itemID,
		UserID: userID,
		Title:  item.Title,
		At:     time.Now().UTC(),
	})
	return item, nil
}

func (s *itemService) SuggestMatches(ctx context.Context, itemID string) ([]models.MatchSuggestion, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	empty := []models.MatchSuggestion{}
	if !item.IsOpen() || s.matcher == nil {
		return empty, nil
	}

	found, err := s.items.List(ctx, db.OpponentCandidatesQuery(item.Type))
	if err != nil {
		s.log.Warn("Failed to load match candidates", zap.String("itemID", itemID), zap.Error(err))
		return empty, nil
	}
	if len(found) == 0 {
		return empty, nil
	}
	candidates := make([]models.MatchCandidate, 0, len(found))
	for _, c := range found {
		candidates = append(candidates, models.CandidateFromItem(c))
	}

	suggestions, err := s.matcher.Match(ctx, models.CandidateFromItem(item), candidates)
	if err != nil {
		s.log.Warn("Match suggestion failed",
			zap.String("itemID", itemID),
			zap.Int("candidates", len(candidates)),
			zap.Error(err))
		return empty, nil
	}
	return suggestions, nil
}
