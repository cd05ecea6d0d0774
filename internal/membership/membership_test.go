package membership

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/errs"
)

func assertValidationOn(t *testing.T, err error, field string) {
	t.Helper()
	var validation *errs.Validation
	if assert.ErrorAs(t, err, &validation, "expected a validation error") {
		assert.Contains(t, validation.Fields, field, "expected validation keyed on %q", field)
	}
}

func TestRequestJoin(t *testing.T) {
	campaign := database.Campaign{
		Id:         1,
		Name:       "Curse of the Ember Throne",
		OwnerId:    10,
		IsPublic:   true,
		MaxPlayers: 4,
		JoinCode:   "abc123",
	}
	character := database.Character{Id: 5, OwnerId: 20, Name: "Vex"}

	tcases := []struct {
		name      string
		params    JoinParams
		setup     func(m *database.MockCampfireRepository)
		wantField string
	}{
		{
			name:   "missing character",
			params: JoinParams{UserId: 20, CampaignId: 1},
			setup: func(m *database.MockCampfireRepository) {
			},
			wantField: "character",
		},
		{
			name:   "missing campaign and code",
			params: JoinParams{UserId: 20, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
			},
			wantField: "campaign",
		},
		{
			name:   "campaign id not found",
			params: JoinParams{UserId: 20, CampaignId: 99, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 99).Return(database.Campaign{}, sql.ErrNoRows).Once()
			},
			wantField: "campaign",
		},
		{
			name:   "unknown join code",
			params: JoinParams{UserId: 20, JoinCode: "nope", CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignByJoinCode", "nope").Return(database.Campaign{}, sql.ErrNoRows).Once()
			},
			wantField: "code",
		},
		{
			name:   "archived campaign",
			params: JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				archived := campaign
				archived.IsArchived = true
				m.On("GetCampaignById", 1).Return(archived, nil).Once()
			},
			wantField: "campaign",
		},
		{
			name:   "owner cannot join own campaign",
			params: JoinParams{UserId: 10, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 1).Return(campaign, nil).Once()
			},
			wantField: "campaign",
		},
		{
			name:   "private campaign requires matching code",
			params: JoinParams{UserId: 20, CampaignId: 1, JoinCode: "wrong", CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				private := campaign
				private.IsPublic = false
				m.On("GetCampaignById", 1).Return(private, nil).Once()
			},
			wantField: "code",
		},
		{
			name:   "duplicate request",
			params: JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 1).Return(campaign, nil).Once()
				m.On("GetJoinRequestForUser", 1, 20).
					Return(database.JoinRequest{Id: 7, Status: database.RequestStatusRejected}, nil).Once()
			},
			wantField: "campaign",
		},
		{
			name:   "character not found",
			params: JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 1).Return(campaign, nil).Once()
				m.On("GetJoinRequestForUser", 1, 20).Return(database.JoinRequest{}, sql.ErrNoRows).Once()
				m.On("GetCharacterById", 5).Return(database.Character{}, sql.ErrNoRows).Once()
			},
			wantField: "character",
		},
		{
			name:   "character owned by someone else",
			params: JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 1).Return(campaign, nil).Once()
				m.On("GetJoinRequestForUser", 1, 20).Return(database.JoinRequest{}, sql.ErrNoRows).Once()
				m.On("GetCharacterById", 5).Return(database.Character{Id: 5, OwnerId: 99}, nil).Once()
			},
			wantField: "character",
		},
		{
			name:   "campaign full",
			params: JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 1).Return(campaign, nil).Once()
				m.On("GetJoinRequestForUser", 1, 20).Return(database.JoinRequest{}, sql.ErrNoRows).Once()
				m.On("GetCharacterById", 5).Return(character, nil).Once()
				m.On("CountAcceptedRequests", 1).Return(4, nil).Once()
			},
			wantField: "campaign",
		},
		{
			name:   "insert loses the race to the last seat",
			params: JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5},
			setup: func(m *database.MockCampfireRepository) {
				m.On("GetCampaignById", 1).Return(campaign, nil).Once()
				m.On("GetJoinRequestForUser", 1, 20).Return(database.JoinRequest{}, sql.ErrNoRows).Once()
				m.On("GetCharacterById", 5).Return(character, nil).Once()
				m.On("CountAcceptedRequests", 1).Return(3, nil).Once()
				m.On("CreateJoinRequest", mock.Anything).
					Return(database.JoinRequest{}, database.ErrCampaignFull).Once()
			},
			wantField: "campaign",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockCampfireRepository{}
			defer mockRepo.AssertExpectations(t)
			tc.setup(mockRepo)

			svc := NewService(mockRepo)
			_, err := svc.RequestJoin(tc.params)

			assertValidationOn(t, err, tc.wantField)
		})
	}

	t.Run("files a pending request", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		expected := database.JoinRequest{
			Id:          42,
			CampaignId:  1,
			UserId:      20,
			CharacterId: 5,
			Status:      database.RequestStatusPending,
			CreatedAt:   time.Now().UTC(),
		}

		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("GetJoinRequestForUser", 1, 20).Return(database.JoinRequest{}, sql.ErrNoRows).Once()
		mockRepo.On("GetCharacterById", 5).Return(character, nil).Once()
		mockRepo.On("CountAcceptedRequests", 1).Return(2, nil).Once()
		mockRepo.On("CreateJoinRequest", database.CreateJoinRequestParams{
			CampaignId:  1,
			UserId:      20,
			CharacterId: 5,
		}).Return(expected, nil).Once()

		svc := NewService(mockRepo)
		req, err := svc.RequestJoin(JoinParams{UserId: 20, CampaignId: 1, CharacterId: 5})

		assert.NoError(t, err, "expected request to be created")
		assert.Equal(t, expected, req, "expected the created request back")
	})

	t.Run("resolves private campaign by code alone", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		private := campaign
		private.IsPublic = false

		mockRepo.On("GetCampaignByJoinCode", "abc123").Return(private, nil).Once()
		mockRepo.On("GetJoinRequestForUser", 1, 20).Return(database.JoinRequest{}, sql.ErrNoRows).Once()
		mockRepo.On("GetCharacterById", 5).Return(character, nil).Once()
		mockRepo.On("CountAcceptedRequests", 1).Return(0, nil).Once()
		mockRepo.On("CreateJoinRequest", mock.Anything).
			Return(database.JoinRequest{Id: 43, Status: database.RequestStatusPending}, nil).Once()

		svc := NewService(mockRepo)
		_, err := svc.RequestJoin(JoinParams{UserId: 20, JoinCode: "abc123", CharacterId: 5})

		assert.NoError(t, err, "expected code-based join to succeed")
	})
}

func TestApprove(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}
	pending := database.JoinRequest{
		Id:         7,
		CampaignId: 1,
		UserId:     20,
		Status:     database.RequestStatusPending,
	}

	t.Run("approves a pending request", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		accepted := pending
		accepted.Status = database.RequestStatusAccepted

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("AcceptJoinRequest", 7).Return(accepted, 0, nil).Once()

		svc := NewService(mockRepo)
		req, swept, err := svc.Approve(7, 10)

		assert.NoError(t, err, "expected approve to succeed")
		assert.Equal(t, database.RequestStatusAccepted, req.Status, "expected request to be accepted")
		assert.Zero(t, swept, "expected no pending requests swept")
	})

	t.Run("reports the capacity cascade", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		accepted := pending
		accepted.Status = database.RequestStatusAccepted

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("AcceptJoinRequest", 7).Return(accepted, 3, nil).Once()

		svc := NewService(mockRepo)
		_, swept, err := svc.Approve(7, 10)

		assert.NoError(t, err, "expected approve to succeed")
		assert.Equal(t, 3, swept, "expected remaining pending requests to be swept")
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetJoinRequestById", 7).Return(database.JoinRequest{}, sql.ErrNoRows).Once()

		svc := NewService(mockRepo)
		_, _, err := svc.Approve(7, 10)

		var notFound *errs.NotFound
		assert.ErrorAs(t, err, &notFound, "expected a not-found error")
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		svc := NewService(mockRepo)
		_, _, err := svc.Approve(7, 20)

		var forbidden *errs.Forbidden
		assert.ErrorAs(t, err, &forbidden, "expected a forbidden error")
	})

	t.Run("archived campaign rejects approval", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		archived := campaign
		archived.IsArchived = true

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(archived, nil).Once()

		svc := NewService(mockRepo)
		_, _, err := svc.Approve(7, 10)

		assertValidationOn(t, err, "campaign")
	})

	t.Run("decided request cannot be approved again", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		decided := pending
		decided.Status = database.RequestStatusRejected

		mockRepo.On("GetJoinRequestById", 7).Return(decided, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		svc := NewService(mockRepo)
		_, _, err := svc.Approve(7, 10)

		assertValidationOn(t, err, "status")
	})

	t.Run("full campaign blocks approval", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("AcceptJoinRequest", 7).
			Return(database.JoinRequest{}, 0, database.ErrCampaignFull).Once()

		svc := NewService(mockRepo)
		_, _, err := svc.Approve(7, 10)

		assertValidationOn(t, err, "campaign")
	})
}

func TestReject(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}
	pending := database.JoinRequest{
		Id:         7,
		CampaignId: 1,
		UserId:     20,
		Status:     database.RequestStatusPending,
	}

	t.Run("rejects a pending request", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		rejected := pending
		rejected.Status = database.RequestStatusRejected

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("RejectJoinRequest", 7).Return(rejected, nil).Once()

		svc := NewService(mockRepo)
		req, err := svc.Reject(7, 10)

		assert.NoError(t, err, "expected reject to succeed")
		assert.Equal(t, database.RequestStatusRejected, req.Status, "expected request to be rejected")
	})

	t.Run("still allowed on an archived campaign", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		archived := campaign
		archived.IsArchived = true
		rejected := pending
		rejected.Status = database.RequestStatusRejected

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(archived, nil).Once()
		mockRepo.On("RejectJoinRequest", 7).Return(rejected, nil).Once()

		svc := NewService(mockRepo)
		_, err := svc.Reject(7, 10)

		assert.NoError(t, err, "expected reject on archived campaign to succeed")
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetJoinRequestById", 7).Return(pending, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		svc := NewService(mockRepo)
		_, err := svc.Reject(7, 20)

		var forbidden *errs.Forbidden
		assert.ErrorAs(t, err, &forbidden, "expected a forbidden error")
	})

	t.Run("decided request cannot be rejected again", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		decided := pending
		decided.Status = database.RequestStatusAccepted

		mockRepo.On("GetJoinRequestById", 7).Return(decided, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		svc := NewService(mockRepo)
		_, err := svc.Reject(7, 10)

		assertValidationOn(t, err, "status")
	})
}

func TestList(t *testing.T) {
	requests := []database.JoinRequest{
		{Id: 1, CampaignId: 1, UserId: 20, Status: database.RequestStatusPending},
	}

	tcases := []struct {
		name      string
		params    ListParams
		wantQuery database.ListJoinRequestsParams
		wantField string
	}{
		{
			name:      "defaults to outgoing scope",
			params:    ListParams{UserId: 20},
			wantQuery: database.ListJoinRequestsParams{OutgoingUserId: 20},
		},
		{
			name:      "incoming scope targets owned campaigns",
			params:    ListParams{UserId: 10, Scope: ScopeIncoming, CampaignId: 1},
			wantQuery: database.ListJoinRequestsParams{IncomingOwnerId: 10, CampaignId: 1},
		},
		{
			name:   "status filter passes through",
			params: ListParams{UserId: 20, Scope: ScopeOutgoing, Status: database.RequestStatusPending},
			wantQuery: database.ListJoinRequestsParams{
				OutgoingUserId: 20,
				Status:         database.RequestStatusPending,
			},
		},
		{
			name:      "unknown scope is rejected",
			params:    ListParams{UserId: 20, Scope: "sideways"},
			wantField: "scope",
		},
		{
			name:      "unknown status is rejected",
			params:    ListParams{UserId: 20, Status: "MAYBE"},
			wantField: "status",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockCampfireRepository{}
			defer mockRepo.AssertExpectations(t)

			if tc.wantField == "" {
				mockRepo.On("ListJoinRequests", tc.wantQuery).Return(requests, nil).Once()
			}

			svc := NewService(mockRepo)
			got, err := svc.List(tc.params)

			if tc.wantField != "" {
				assertValidationOn(t, err, tc.wantField)
				return
			}
			assert.NoError(t, err, "expected list to succeed")
			assert.Equal(t, requests, got, "expected repository rows back")
		})
	}
}
