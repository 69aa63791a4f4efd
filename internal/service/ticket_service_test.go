package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	"github.com/spec-kit/helpdesk-api/internal/events"
	"github.com/spec-kit/helpdesk-api/pkg/apperrors"
)

func newTestService() (*TicketService, *memStore) {
	store := newMemStore()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  store.ticketRepo(),
		CommentRepo: store.commentRepo(),
	})
	return svc, store
}

func strPtr(s string) *string { return &s }

func createTicket(t *testing.T, svc *TicketService, title string) *domain.Ticket {
	t.Helper()
	ticket, err := svc.Create(context.Background(), TicketCreateInput{
		Title:       title,
		Description: "description for " + title,
	})
	require.NoError(t, err)
	return ticket
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("assigns defaults and id", func(t *testing.T) {
		ticket, err := svc.Create(ctx, TicketCreateInput{
			Title:       "Printer broken",
			Description: "No toner",
		})
		require.NoError(t, err)

		assert.NotZero(t, ticket.ID)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
		assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)
	})

	t.Run("keeps supplied priority", func(t *testing.T) {
		ticket, err := svc.Create(ctx, TicketCreateInput{
			Title:       "VPN down",
			Description: "Cannot connect",
			Priority:    domain.TicketPriorityUrgent,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TicketPriorityUrgent, ticket.Priority)
	})

	t.Run("trims title and description", func(t *testing.T) {
		ticket, err := svc.Create(ctx, TicketCreateInput{
			Title:       "  Spaced out  ",
			Description: "  padded  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Spaced out", ticket.Title)
		assert.Equal(t, "padded", ticket.Description)
	})

	t.Run("status is always open regardless of caller intent", func(t *testing.T) {
		// TicketCreateInput has no status field; the closest a caller can
		// get is supplying one on update. Creation is pinned to OPEN.
		ticket := createTicket(t, svc, "Always open")
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	})
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created := createTicket(t, svc, "Lookup me")

	found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Lookup me", found.Title)

	_, err = svc.GetByID(ctx, 9999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "Ticket not found. Id=9999")
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("overwrites every field and refreshes updatedAt", func(t *testing.T) {
		created := createTicket(t, svc, "Printer broken")
		time.Sleep(2 * time.Millisecond)

		updated, err := svc.Update(ctx, created.ID, TicketUpdateInput{
			Title:       "Printer broken",
			Description: "No toner",
			Status:      domain.TicketStatusInProgress,
			Priority:    domain.TicketPriorityHigh,
			Assignee:    strPtr("alice"),
			Tags:        strPtr("hardware,printer"),
		})
		require.NoError(t, err)

		assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
		assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)
		require.NotNil(t, updated.Assignee)
		assert.Equal(t, "alice", *updated.Assignee)
		assert.True(t, updated.UpdatedAt.After(created.CreatedAt))

		reloaded, err := svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, reloaded.Status)
		assert.Equal(t, domain.TicketPriorityHigh, reloaded.Priority)
	})

	t.Run("full replace clears fields not resent", func(t *testing.T) {
		created := createTicket(t, svc, "With assignee")
		_, err := svc.Update(ctx, created.ID, TicketUpdateInput{
			Title:       "With assignee",
			Description: "d",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityLow,
			Assignee:    strPtr("bob"),
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, TicketUpdateInput{
			Title:       "With assignee",
			Description: "d",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityLow,
		})
		require.NoError(t, err)

		reloaded, err := svc.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.Assignee)
	})

	t.Run("missing ticket", func(t *testing.T) {
		_, err := svc.Update(ctx, 4242, TicketUpdateInput{
			Title:       "x",
			Description: "y",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityLow,
		})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDeleteCascade(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	ticket := createTicket(t, svc, "Doomed")
	for i := 0; i < 3; i++ {
		_, err := svc.AddComment(ctx, ticket.ID, "carol", fmt.Sprintf("note %d", i))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, ticket.ID))

	store.mu.Lock()
	remaining := 0
	for _, comment := range store.comments {
		if comment.TicketID == ticket.ID {
			remaining++
		}
	}
	store.mu.Unlock()
	assert.Zero(t, remaining)

	_, err := svc.GetComments(ctx, ticket.ID)
	assert.True(t, apperrors.IsNotFound(err))

	assert.True(t, apperrors.IsNotFound(svc.Delete(ctx, ticket.ID)))
}

func TestComments(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	ticket := createTicket(t, svc, "Thread")

	t.Run("add trims author and message", func(t *testing.T) {
		comment, err := svc.AddComment(ctx, ticket.ID, "  dave  ", "  first!  ")
		require.NoError(t, err)
		assert.Equal(t, "dave", comment.Author)
		assert.Equal(t, "first!", comment.Message)
		assert.Equal(t, ticket.ID, comment.TicketID)
		assert.NotZero(t, comment.ID)
	})

	t.Run("add to missing ticket creates nothing", func(t *testing.T) {
		before := len(store.comments)
		_, err := svc.AddComment(ctx, 777, "eve", "hello?")
		assert.True(t, apperrors.IsNotFound(err))
		assert.Len(t, store.comments, before)
	})

	t.Run("list newest first", func(t *testing.T) {
		time.Sleep(2 * time.Millisecond)
		_, err := svc.AddComment(ctx, ticket.ID, "dave", "second")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		_, err = svc.AddComment(ctx, ticket.ID, "dave", "third")
		require.NoError(t, err)

		comments, err := svc.GetComments(ctx, ticket.ID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "third", comments[0].Message)
		assert.Equal(t, "first!", comments[2].Message)
	})

	t.Run("update overwrites message only", func(t *testing.T) {
		comment, err := svc.AddComment(ctx, ticket.ID, "frank", "typo herre")
		require.NoError(t, err)

		updated, err := svc.UpdateComment(ctx, comment.ID, "  typo here  ")
		require.NoError(t, err)
		assert.Equal(t, "typo here", updated.Message)
		assert.Equal(t, "frank", updated.Author)
		assert.Equal(t, comment.TicketID, updated.TicketID)
	})

	t.Run("update missing comment", func(t *testing.T) {
		_, err := svc.UpdateComment(ctx, 31337, "nope")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
		assert.Contains(t, err.Error(), "Comment not found. Id=31337")
	})

	t.Run("delete", func(t *testing.T) {
		comment, err := svc.AddComment(ctx, ticket.ID, "grace", "bye")
		require.NoError(t, err)
		require.NoError(t, svc.DeleteComment(ctx, comment.ID))
		assert.True(t, apperrors.IsNotFound(svc.DeleteComment(ctx, comment.ID)))
	})
}

func TestList(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seed := func() *TicketService {
		svc, _ = newTestService()
		return svc
	}

	t.Run("whitespace search is a full bypass", func(t *testing.T) {
		svc := seed()
		createTicket(t, svc, "Printer broken")
		createTicket(t, svc, "Keyboard sticky")

		page, err := svc.List(ctx, TicketListQuery{Search: "   "})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalCount)
		assert.Len(t, page.Items, 2)
	})

	t.Run("search matches title case-insensitively", func(t *testing.T) {
		svc := seed()
		createTicket(t, svc, "Printer broken")
		createTicket(t, svc, "Keyboard sticky")

		page, err := svc.List(ctx, TicketListQuery{Search: "printer"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Printer broken", page.Items[0].Title)
	})

	t.Run("search spans assignee and tags", func(t *testing.T) {
		svc := seed()
		createTicket(t, svc, "Plain")
		_, err := svc.Create(ctx, TicketCreateInput{
			Title:       "Tagged",
			Description: "d",
			Assignee:    strPtr("Helga"),
			Tags:        strPtr("network,vpn"),
		})
		require.NoError(t, err)

		byAssignee, err := svc.List(ctx, TicketListQuery{Search: "helga"})
		require.NoError(t, err)
		require.Len(t, byAssignee.Items, 1)

		byTag, err := svc.List(ctx, TicketListQuery{Search: "vpn"})
		require.NoError(t, err)
		require.Len(t, byTag.Items, 1)
	})

	t.Run("status and priority filters apply only when set", func(t *testing.T) {
		svc := seed()
		open := createTicket(t, svc, "Open one")
		other := createTicket(t, svc, "Progressing")
		_, err := svc.Update(ctx, other.ID, TicketUpdateInput{
			Title:       "Progressing",
			Description: "d",
			Status:      domain.TicketStatusInProgress,
			Priority:    domain.TicketPriorityHigh,
		})
		require.NoError(t, err)

		all, err := svc.List(ctx, TicketListQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), all.TotalCount)

		status := domain.TicketStatusOpen
		onlyOpen, err := svc.List(ctx, TicketListQuery{Status: &status})
		require.NoError(t, err)
		require.Len(t, onlyOpen.Items, 1)
		assert.Equal(t, open.ID, onlyOpen.Items[0].ID)

		priority := domain.TicketPriorityHigh
		onlyHigh, err := svc.List(ctx, TicketListQuery{Priority: &priority})
		require.NoError(t, err)
		require.Len(t, onlyHigh.Items, 1)
		assert.Equal(t, other.ID, onlyHigh.Items[0].ID)
	})

	t.Run("paging normalization is reflected in the result", func(t *testing.T) {
		svc := seed()
		createTicket(t, svc, "Solo")

		page, err := svc.List(ctx, TicketListQuery{Page: -3, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, MaxPageSize, page.PageSize)
	})

	t.Run("sequential pages cover everything without duplicates", func(t *testing.T) {
		svc := seed()
		const total = 7
		for i := 0; i < total; i++ {
			createTicket(t, svc, fmt.Sprintf("Ticket %02d", i))
			time.Sleep(time.Millisecond)
		}

		const pageSize = 3
		seen := map[int64]bool{}
		pages := 0
		for page := 1; ; page++ {
			result, err := svc.List(ctx, TicketListQuery{Page: page, PageSize: pageSize})
			require.NoError(t, err)
			assert.Equal(t, int64(total), result.TotalCount)
			if len(result.Items) == 0 {
				break
			}
			pages++
			for _, item := range result.Items {
				assert.False(t, seen[item.ID], "ticket %d appeared twice", item.ID)
				seen[item.ID] = true
			}
		}
		assert.Len(t, seen, total)
		assert.Equal(t, (total+pageSize-1)/pageSize, pages)
	})

	t.Run("sort orders", func(t *testing.T) {
		svc := seed()
		first := createTicket(t, svc, "First")
		time.Sleep(2 * time.Millisecond)
		second := createTicket(t, svc, "Second")
		time.Sleep(2 * time.Millisecond)
		// touch the first ticket so updatedAt ordering diverges from createdAt
		_, err := svc.Update(ctx, first.ID, TicketUpdateInput{
			Title:       "First",
			Description: "d",
			Status:      domain.TicketStatusOpen,
			Priority:    domain.TicketPriorityMedium,
		})
		require.NoError(t, err)

		asc, err := svc.List(ctx, TicketListQuery{Sort: "createdAtAsc"})
		require.NoError(t, err)
		require.Len(t, asc.Items, 2)
		assert.Equal(t, first.ID, asc.Items[0].ID)

		upper, err := svc.List(ctx, TicketListQuery{Sort: "CREATEDATASC"})
		require.NoError(t, err)
		assert.Equal(t, asc.Items[0].ID, upper.Items[0].ID)
		assert.Equal(t, asc.Items[1].ID, upper.Items[1].ID)

		desc, err := svc.List(ctx, TicketListQuery{Sort: "createdAtDesc"})
		require.NoError(t, err)
		assert.Equal(t, second.ID, desc.Items[0].ID)

		bogus, err := svc.List(ctx, TicketListQuery{Sort: "bogus"})
		require.NoError(t, err)
		assert.Equal(t, desc.Items[0].ID, bogus.Items[0].ID)

		absent, err := svc.List(ctx, TicketListQuery{})
		require.NoError(t, err)
		assert.Equal(t, desc.Items[0].ID, absent.Items[0].ID)

		updatedDesc, err := svc.List(ctx, TicketListQuery{Sort: "updatedAtDesc"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, updatedDesc.Items[0].ID)
	})
}

func TestEventsPublished(t *testing.T) {
	store := newMemStore()
	dispatcher := events.NewInMemoryDispatcher()

	var received []events.Event
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketDeleted,
		events.EventCommentAdded,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			received = append(received, event)
			return nil
		})
	}

	svc := NewTicketService(TicketDependencies{
		TicketRepo:  store.ticketRepo(),
		CommentRepo: store.commentRepo(),
		Dispatcher:  dispatcher,
	})
	ctx := context.Background()

	ticket, err := svc.Create(ctx, TicketCreateInput{Title: "Evented", Description: "d"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, ticket.ID, "harry", "watching")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, ticket.ID))

	require.Len(t, received, 3)
	assert.Equal(t, events.EventTicketCreated, received[0].Type)
	assert.Equal(t, events.EventCommentAdded, received[1].Type)
	assert.Equal(t, events.EventTicketDeleted, received[2].Type)
	for _, event := range received {
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		assert.Equal(t, ticket.ID, event.TicketID)
	}
}
