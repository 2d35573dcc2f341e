package service

import (
	"context"
	"time"

	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/queue"
)

// Hand-rolled mocks: the services depend on the repository INTERFACES, so
// tests swap in these and script behavior per case via function fields.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsFn           func(ctx context.Context, id int64) (bool, error)
	getSummariesFn     func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	searchFn           func(ctx context.Context, query string, excludeID int64, limit int) ([]model.UserSummary, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesFn != nil {
		return m.getSummariesFn(ctx, ids)
	}
	return map[int64]model.UserSummary{}, nil
}

func (m *mockUserRepository) Search(ctx context.Context, query string, excludeID int64, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, excludeID, limit)
	}
	return nil, nil
}

type mockFollowRepository struct {
	createFn         func(ctx context.Context, followerID, followedID int64) (bool, error)
	deleteFn         func(ctx context.Context, followerID, followedID int64) (bool, error)
	existsFn         func(ctx context.Context, followerID, followedID int64) (bool, error)
	getFollowersFn   func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	getFollowingFn   func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	checkFollowsFn   func(ctx context.Context, followerID int64, followedIDs []int64) (map[int64]bool, error)
	getFollowedIDsFn func(ctx context.Context, userID int64) ([]int64, error)

	createCalls int
	deleteCalls int
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followedID int64) (bool, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followedID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followedID int64) (bool, error) {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followedID)
	}
	return true, nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followedID)
	}
	return false, nil
}

func (m *mockFollowRepository) GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowersFn != nil {
		return m.getFollowersFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockFollowRepository) GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowingFn != nil {
		return m.getFollowingFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockFollowRepository) CheckFollows(ctx context.Context, followerID int64, followedIDs []int64) (map[int64]bool, error) {
	if m.checkFollowsFn != nil {
		return m.checkFollowsFn(ctx, followerID, followedIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockFollowRepository) GetFollowedIDs(ctx context.Context, userID int64) ([]int64, error) {
	if m.getFollowedIDsFn != nil {
		return m.getFollowedIDsFn(ctx, userID)
	}
	return nil, nil
}

type mockTicketRepository struct {
	createFn           func(ctx context.Context, userID int64, req model.CreateTicketRequest) (*model.Ticket, error)
	createWithReviewFn func(ctx context.Context, userID int64, t model.CreateTicketRequest, rating int, headline, body string) (*model.Ticket, *model.Review, error)
	getByIDFn          func(ctx context.Context, ticketID int64) (*model.Ticket, error)
	updateFn           func(ctx context.Context, ticketID, userID int64, req model.UpdateTicketRequest) (*model.Ticket, error)
	deleteFn           func(ctx context.Context, ticketID, userID int64) error
	listByOwnerFn      func(ctx context.Context, userID int64) ([]model.Ticket, error)
	listByOwnersFn     func(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error)
	existsFn           func(ctx context.Context, ticketID int64) (bool, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, userID int64, req model.CreateTicketRequest) (*model.Ticket, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return &model.Ticket{ID: 1, UserID: userID, Title: req.Title, Description: req.Description, ImageURL: req.ImageURL, ImageKey: req.ImageKey, TimeCreated: time.Now()}, nil
}

func (m *mockTicketRepository) CreateWithReview(ctx context.Context, userID int64, t model.CreateTicketRequest, rating int, headline, body string) (*model.Ticket, *model.Review, error) {
	if m.createWithReviewFn != nil {
		return m.createWithReviewFn(ctx, userID, t, rating, headline, body)
	}
	ticket := &model.Ticket{ID: 1, UserID: userID, Title: t.Title, Description: t.Description, ImageURL: t.ImageURL, ImageKey: t.ImageKey, TimeCreated: time.Now()}
	review := &model.Review{ID: 1, TicketID: 1, UserID: userID, Rating: rating, Headline: headline, Body: body, TimeCreated: time.Now()}
	return ticket, review, nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID int64) (*model.Ticket, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, ticketID)
	}
	return nil, model.ErrTicketNotFound
}

func (m *mockTicketRepository) Update(ctx context.Context, ticketID, userID int64, req model.UpdateTicketRequest) (*model.Ticket, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, ticketID, userID, req)
	}
	return nil, model.ErrTicketNotFound
}

func (m *mockTicketRepository) Delete(ctx context.Context, ticketID, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ticketID, userID)
	}
	return nil
}

func (m *mockTicketRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Ticket, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockTicketRepository) ListByOwners(ctx context.Context, ownerIDs []int64) ([]model.Ticket, error) {
	if m.listByOwnersFn != nil {
		return m.listByOwnersFn(ctx, ownerIDs)
	}
	return nil, nil
}

func (m *mockTicketRepository) Exists(ctx context.Context, ticketID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, ticketID)
	}
	return true, nil
}

type mockReviewRepository struct {
	createFn         func(ctx context.Context, ticketID, userID int64, rating int, headline, body string) (*model.Review, error)
	getByIDFn        func(ctx context.Context, reviewID int64) (*model.Review, error)
	updateFn         func(ctx context.Context, reviewID, userID int64, rating int, headline, body string) (*model.Review, error)
	deleteFn         func(ctx context.Context, reviewID, userID int64) error
	listByTicketFn   func(ctx context.Context, ticketID int64) ([]model.Review, error)
	listByOwnerFn    func(ctx context.Context, userID int64) ([]model.Review, error)
	listVisibleFn    func(ctx context.Context, authorIDs []int64, ticketOwnerID int64) ([]model.Review, error)
	checkResponsesFn func(ctx context.Context, userID int64, ticketIDs []int64) (map[int64]bool, error)
}

func (m *mockReviewRepository) Create(ctx context.Context, ticketID, userID int64, rating int, headline, body string) (*model.Review, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ticketID, userID, rating, headline, body)
	}
	return &model.Review{ID: 1, TicketID: ticketID, UserID: userID, Rating: rating, Headline: headline, Body: body, TimeCreated: time.Now()}, nil
}

func (m *mockReviewRepository) GetByID(ctx context.Context, reviewID int64) (*model.Review, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, reviewID)
	}
	return nil, model.ErrReviewNotFound
}

func (m *mockReviewRepository) Update(ctx context.Context, reviewID, userID int64, rating int, headline, body string) (*model.Review, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, reviewID, userID, rating, headline, body)
	}
	return nil, model.ErrReviewNotFound
}

func (m *mockReviewRepository) Delete(ctx context.Context, reviewID, userID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, reviewID, userID)
	}
	return nil
}

func (m *mockReviewRepository) ListByTicket(ctx context.Context, ticketID int64) ([]model.Review, error) {
	if m.listByTicketFn != nil {
		return m.listByTicketFn(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockReviewRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Review, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockReviewRepository) ListVisible(ctx context.Context, authorIDs []int64, ticketOwnerID int64) ([]model.Review, error) {
	if m.listVisibleFn != nil {
		return m.listVisibleFn(ctx, authorIDs, ticketOwnerID)
	}
	return nil, nil
}

func (m *mockReviewRepository) CheckResponses(ctx context.Context, userID int64, ticketIDs []int64) (map[int64]bool, error) {
	if m.checkResponsesFn != nil {
		return m.checkResponsesFn(ctx, userID, ticketIDs)
	}
	return map[int64]bool{}, nil
}

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.MediaEvent) (string, error)

	published []queue.MediaEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.MediaEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

type mockObjectRemover struct {
	deleted []string
}

func (m *mockObjectRemover) DeleteObject(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}
