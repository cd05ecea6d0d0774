package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/types"
)

func TestCreateCampaignHandler(t *testing.T) {
	t.Run("creates a campaign with a generated join code", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		created := database.Campaign{
			Id:         1,
			Name:       "Ember Throne",
			OwnerId:    10,
			IsPublic:   true,
			MaxPlayers: 4,
			JoinCode:   "code123",
		}
		mockRepo.On("CreateCampaign", database.CreateCampaignParams{
			Name:       "Ember Throne",
			OwnerId:    10,
			IsPublic:   true,
			MaxPlayers: 4,
			JoinCode:   "code123",
		}).Return(created, nil).Once()

		app := newTestApp(t, mockRepo)
		app.generateJoinCode = func() (string, error) { return "code123", nil }

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/campaigns", jsonBody(t, CreateCampaignRequest{
			Name:       "Ember Throne",
			IsPublic:   true,
			MaxPlayers: 4,
		}), 10)
		app.createCampaign(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, "expected 201")

		var resp types.Campaign
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.True(t, resp.IsOwner, "expected creator to be owner")
		assert.Equal(t, "code123", resp.JoinCode, "expected the join code for the owner")
	})

	t.Run("rejects missing name and bad max players", func(t *testing.T) {
		app := newTestApp(t, &database.MockCampfireRepository{})

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/campaigns", jsonBody(t, CreateCampaignRequest{
			MaxPlayers: 0,
		}), 10)
		app.createCampaign(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
		apiErr := decodeApiError(t, rr)
		assert.Contains(t, apiErr.Fields, "name", "expected name error")
		assert.Contains(t, apiErr.Fields, "max_players", "expected max_players error")
	})

	t.Run("requires authentication", func(t *testing.T) {
		app := newTestApp(t, &database.MockCampfireRepository{})

		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/campaigns", jsonBody(t, CreateCampaignRequest{Name: "x", MaxPlayers: 1}), 0)
		app.createCampaign(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "expected 401")
	})
}

func TestGetCampaignHandler(t *testing.T) {
	campaign := database.Campaign{
		Id:         1,
		Name:       "Ember Throne",
		OwnerId:    10,
		IsPublic:   false,
		MaxPlayers: 4,
		JoinCode:   "code123",
	}
	players := []database.CampaignPlayer{
		{UserId: 20, Username: "vex", CharacterId: 5, CharacterName: "Vex", ClassName: "Ranger", Level: 3},
	}

	t.Run("owner sees join code and pending count", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("ListCampaignPlayers", 1).Return(players, nil).Once()
		mockRepo.On("ListJoinRequests", database.ListJoinRequestsParams{
			IncomingOwnerId: 10,
			CampaignId:      1,
			Status:          database.RequestStatusPending,
		}).Return([]database.JoinRequest{{Id: 7}}, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/campaigns/1", nil, 10), 1)
		app.getCampaign(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")

		var resp types.Campaign
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.Equal(t, "code123", resp.JoinCode, "expected join code for owner")
		assert.Equal(t, 1, resp.PendingRequestsCount, "expected pending count for owner")
		assert.Len(t, resp.Players, 1, "expected the player roster")
	})

	t.Run("member sees the campaign but not the join code", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("HasAcceptedRequest", 1, 20).Return(true, nil).Once()
		mockRepo.On("ListCampaignPlayers", 1).Return(players, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/campaigns/1", nil, 20), 1)
		app.getCampaign(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")

		var resp types.Campaign
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.Empty(t, resp.JoinCode, "expected no join code for a member")
		assert.Zero(t, resp.PendingRequestsCount, "expected no pending count for a member")
	})

	t.Run("outsider gets a not found", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("HasAcceptedRequest", 1, 30).Return(false, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/campaigns/1", nil, 30), 1)
		app.getCampaign(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, "expected 404")
	})
}

func TestListCampaignsHandler(t *testing.T) {
	mockRepo := &database.MockCampfireRepository{}
	defer mockRepo.AssertExpectations(t)

	rows := []database.Campaign{
		{Id: 1, Name: "Mine", OwnerId: 10, JoinCode: "secret", PlayersCount: 2, PendingRequestsCount: 1},
		{Id: 2, Name: "Joined", OwnerId: 99, MyRequestStatus: sql.NullString{String: database.RequestStatusAccepted, Valid: true}},
	}
	mockRepo.On("ListCampaigns", 10).Return(rows, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/campaigns", nil, 10)
	app.listCampaigns(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected 200")

	var resp []types.Campaign
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "failed to decode response")
	assert.Len(t, resp, 2, "expected both campaigns")
	assert.Equal(t, "secret", resp[0].JoinCode, "expected join code on owned campaign")
	assert.Empty(t, resp[1].JoinCode, "expected no join code on joined campaign")
	assert.Equal(t, database.RequestStatusAccepted, resp[1].MyRequestStatus, "expected the caller's request status")
}

func TestSearchPublicCampaignsHandler(t *testing.T) {
	mockRepo := &database.MockCampfireRepository{}
	defer mockRepo.AssertExpectations(t)

	rows := []database.Campaign{
		{Id: 1, Name: "Open Table", OwnerId: 10, IsPublic: true, JoinCode: "secret", PlayersCount: 3},
	}
	mockRepo.On("SearchPublicCampaigns", "open").Return(rows, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/public?q=open", nil)
	app.searchPublicCampaigns(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected 200")

	var resp []types.Campaign
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "failed to decode response")
	assert.Len(t, resp, 1, "expected one match")
	assert.Empty(t, resp[0].JoinCode, "join codes never leak through public search")
	assert.Equal(t, 3, resp[0].PlayersCount, "expected the seat count")
}

func TestUpdateCampaignHandler(t *testing.T) {
	campaign := database.Campaign{Id: 1, Name: "Ember Throne", OwnerId: 10, MaxPlayers: 4}

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodPatch, "/api/campaigns/1", jsonBody(t, UpdateCampaignRequest{}), 20), 1)
		app.updateCampaign(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "expected 403")
	})

	t.Run("archived campaign only accepts unarchiving", func(t *testing.T) {
		archived := campaign
		archived.IsArchived = true

		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(archived, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		name := "New Name"
		req := withIdParam(authedRequest(http.MethodPatch, "/api/campaigns/1", jsonBody(t, UpdateCampaignRequest{Name: &name}), 10), 1)
		app.updateCampaign(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
		apiErr := decodeApiError(t, rr)
		assert.Contains(t, apiErr.Fields, "campaign", "expected archived validation error")
	})

	t.Run("unarchiving an archived campaign is allowed", func(t *testing.T) {
		archived := campaign
		archived.IsArchived = true

		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(archived, nil).Once()

		unarchive := false
		updated := campaign
		mockRepo.On("UpdateCampaign", database.UpdateCampaignParams{
			CampaignId: 1,
			IsArchived: &unarchive,
		}).Return(updated, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodPatch, "/api/campaigns/1", jsonBody(t, UpdateCampaignRequest{IsArchived: &unarchive}), 10), 1)
		app.updateCampaign(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")
	})

	t.Run("shrinking below accepted players fails", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		two := 2
		mockRepo.On("UpdateCampaign", database.UpdateCampaignParams{
			CampaignId: 1,
			MaxPlayers: &two,
		}).Return(database.Campaign{}, database.ErrMaxPlayersTooLow).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodPatch, "/api/campaigns/1", jsonBody(t, UpdateCampaignRequest{MaxPlayers: &two}), 10), 1)
		app.updateCampaign(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
		apiErr := decodeApiError(t, rr)
		assert.Contains(t, apiErr.Fields, "max_players", "expected max_players error")
	})

	t.Run("owner updates fields", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		name := "Renamed"
		updated := campaign
		updated.Name = name
		mockRepo.On("UpdateCampaign", database.UpdateCampaignParams{
			CampaignId: 1,
			Name:       &name,
		}).Return(updated, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodPatch, "/api/campaigns/1", jsonBody(t, UpdateCampaignRequest{Name: &name}), 10), 1)
		app.updateCampaign(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")

		var resp types.Campaign
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.Equal(t, name, resp.Name, "expected updated name")
	})
}

func TestDeleteCampaignHandler(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10}

	t.Run("owner deletes the campaign", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("DeleteCampaign", 1).Return(nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodDelete, "/api/campaigns/1", nil, 10), 1)
		app.deleteCampaign(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code, "expected 204")
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodDelete, "/api/campaigns/1", nil, 20), 1)
		app.deleteCampaign(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "expected 403")
	})
}
