package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/types"
)

func TestCreateSessionHandler(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}
	date := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	t.Run("owner schedules a session", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("CreateSession", database.CreateSessionParams{
			CampaignId:  1,
			Number:      3,
			Date:        date,
			Description: "The heist",
		}).Return(database.Session{Id: 9, CampaignId: 1, Number: 3, Date: date, Description: "The heist"}, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/sessions", jsonBody(t, CreateSessionRequest{
			Campaign:    1,
			Number:      3,
			Date:        date,
			Description: "The heist",
		}), 10)
		app.createSession(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, "expected 201")
	})

	t.Run("member cannot schedule a session", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/sessions", jsonBody(t, CreateSessionRequest{
			Campaign: 1,
			Number:   3,
			Date:     date,
		}), 20)
		app.createSession(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "expected 403")
	})

	t.Run("archived campaign freezes session creation", func(t *testing.T) {
		archived := campaign
		archived.IsArchived = true

		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(archived, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/sessions", jsonBody(t, CreateSessionRequest{
			Campaign: 1,
			Number:   3,
			Date:     date,
		}), 10)
		app.createSession(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
		apiErr := decodeApiError(t, rr)
		assert.Contains(t, apiErr.Fields, "campaign", "expected archived error")
	})
}

func TestGetSessionHandler(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}
	sess := database.Session{Id: 9, CampaignId: 1, Number: 3}

	t.Run("member views a session", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetSessionById", 9).Return(sess, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("HasAcceptedRequest", 1, 20).Return(true, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/sessions/9", nil, 20), 9)
		app.getSession(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")
	})

	t.Run("outsider gets a not found", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetSessionById", 9).Return(sess, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("HasAcceptedRequest", 1, 30).Return(false, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/sessions/9", nil, 30), 9)
		app.getSession(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, "expected 404")
	})
}

func TestListSessionsHandler(t *testing.T) {
	t.Run("requires a campaign filter", func(t *testing.T) {
		app := newTestApp(t, &database.MockCampfireRepository{})
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/api/sessions", nil, 20)
		app.listSessions(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
	})

	t.Run("returns the filtered rows", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("ListSessions", 20, 1).
			Return([]database.Session{{Id: 9, CampaignId: 1, Number: 1}}, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodGet, "/api/sessions?campaign=1", nil, 20)
		app.listSessions(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")

		var resp []types.Session
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.Len(t, resp, 1, "expected one session")
	})
}

func TestDMNoteVisibility(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}
	sess := database.Session{Id: 9, CampaignId: 1}
	note := database.DMNote{Id: 3, SessionId: 9, Text: "the duke is the villain"}

	t.Run("owner reads the note", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetDMNoteById", 3).Return(note, nil).Once()
		mockRepo.On("GetSessionById", 9).Return(sess, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/dm-notes/3", nil, 10), 3)
		app.getDMNote(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")
	})

	t.Run("member cannot see GM material", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetDMNoteById", 3).Return(note, nil).Once()
		mockRepo.On("GetSessionById", 9).Return(sess, nil).Once()
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/dm-notes/3", nil, 20), 3)
		app.getDMNote(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, "expected 404, not 403")
	})
}

func TestCreateChatMessageHandler(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}

	t.Run("member posts a message", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("HasAcceptedRequest", 1, 20).Return(true, nil).Once()
		mockRepo.On("CreateChatMessage", 1, 20, "roll for initiative").
			Return(database.ChatMessage{Id: 4, CampaignId: 1, UserId: 20, Username: "vex", Text: "roll for initiative"}, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/chat-messages", jsonBody(t, CreateChatMessageRequest{
			Campaign: 1,
			Text:     "roll for initiative",
		}), 20)
		app.createChatMessage(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, "expected 201")

		var resp types.ChatMessage
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.Equal(t, "vex", resp.UserName, "expected the author's username")
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
		mockRepo.On("HasAcceptedRequest", 1, 30).Return(false, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/chat-messages", jsonBody(t, CreateChatMessageRequest{
			Campaign: 1,
			Text:     "hello",
		}), 30)
		app.createChatMessage(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "expected 403")
	})

	t.Run("archived campaign freezes chat", func(t *testing.T) {
		archived := campaign
		archived.IsArchived = true

		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCampaignById", 1).Return(archived, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodPost, "/api/chat-messages", jsonBody(t, CreateChatMessageRequest{
			Campaign: 1,
			Text:     "hello",
		}), 10)
		app.createChatMessage(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
	})
}

func TestDeleteChatMessageHandler(t *testing.T) {
	campaign := database.Campaign{Id: 1, OwnerId: 10, MaxPlayers: 4}
	msg := database.ChatMessage{Id: 4, CampaignId: 1, UserId: 20, Text: "oops"}

	tcases := []struct {
		name     string
		userId   int
		isMember bool
		wantCode int
	}{
		{
			name:     "author deletes their own message",
			userId:   20,
			isMember: true,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "owner moderates any message",
			userId:   10,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "another member is forbidden",
			userId:   25,
			isMember: true,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockCampfireRepository{}
			defer mockRepo.AssertExpectations(t)

			mockRepo.On("GetChatMessageById", 4).Return(msg, nil).Once()
			mockRepo.On("GetCampaignById", 1).Return(campaign, nil).Once()
			if tc.userId != campaign.OwnerId {
				mockRepo.On("HasAcceptedRequest", 1, tc.userId).Return(tc.isMember, nil).Once()
			}
			if tc.wantCode == http.StatusNoContent {
				mockRepo.On("DeleteChatMessage", 4).Return(nil).Once()
			}

			app := newTestApp(t, mockRepo)
			rr := httptest.NewRecorder()
			req := withIdParam(authedRequest(http.MethodDelete, "/api/chat-messages/4", nil, tc.userId), 4)
			app.deleteChatMessage(rr, req)

			assert.Equal(t, tc.wantCode, rr.Code, "expected status code to match")
		})
	}
}

func TestCreateCharacterHandler(t *testing.T) {
	t.Run("resolves free-text class via get-or-create", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		mockRepo.On("GetOrCreateClassByName", "Ranger").
			Return(database.Class{Id: 2, Name: "Ranger"}, nil).Once()
		mockRepo.On("CreateCharacter", mock.MatchedBy(func(ch database.Character) bool {
			return ch.OwnerId == 20 && ch.Name == "Vex" &&
				ch.ClassId.Valid && ch.ClassId.Int64 == 2
		})).Return(database.Character{
			Id:        5,
			OwnerId:   20,
			Name:      "Vex",
			ClassId:   sql.NullInt64{Int64: 2, Valid: true},
			ClassName: "Ranger",
		}, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		name := "Vex"
		classText := " Ranger "
		req := authedRequest(http.MethodPost, "/api/characters", jsonBody(t, CharacterRequest{
			Name:               &name,
			CharacterClassText: &classText,
		}), 20)
		app.createCharacter(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code, "expected 201")

		var resp types.Character
		err := json.NewDecoder(rr.Body).Decode(&resp)
		assert.NoError(t, err, "failed to decode response")
		assert.Equal(t, "Ranger", resp.ClassName, "expected resolved class name")
	})

	t.Run("requires a class id or class name", func(t *testing.T) {
		app := newTestApp(t, &database.MockCampfireRepository{})
		rr := httptest.NewRecorder()
		name := "Vex"
		req := authedRequest(http.MethodPost, "/api/characters", jsonBody(t, CharacterRequest{Name: &name}), 20)
		app.createCharacter(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
		apiErr := decodeApiError(t, rr)
		assert.Contains(t, apiErr.Fields, "character_class_text", "expected class error")
	})

	t.Run("unknown class id is a validation error", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetClassById", 99).Return(database.Class{}, sql.ErrNoRows).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		name := "Vex"
		classId := 99
		req := authedRequest(http.MethodPost, "/api/characters", jsonBody(t, CharacterRequest{
			Name:           &name,
			CharacterClass: &classId,
		}), 20)
		app.createCharacter(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "expected 400")
		apiErr := decodeApiError(t, rr)
		assert.Contains(t, apiErr.Fields, "character_class", "expected class error")
	})
}

func TestCharacterOwnership(t *testing.T) {
	ch := database.Character{Id: 5, OwnerId: 20, Name: "Vex"}

	t.Run("owner reads the sheet", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCharacterById", 5).Return(ch, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/characters/5", nil, 20), 5)
		app.getCharacter(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")
	})

	t.Run("anyone else gets a not found", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)
		mockRepo.On("GetCharacterById", 5).Return(ch, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		req := withIdParam(authedRequest(http.MethodGet, "/api/characters/5", nil, 30), 5)
		app.getCharacter(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, "expected 404")
	})

	t.Run("patch merges only supplied fields", func(t *testing.T) {
		mockRepo := &database.MockCampfireRepository{}
		defer mockRepo.AssertExpectations(t)

		current := ch
		current.Level = 3
		current.Race = "Half-Elf"

		mockRepo.On("GetCharacterById", 5).Return(current, nil).Once()
		mockRepo.On("UpdateCharacter", mock.MatchedBy(func(updated database.Character) bool {
			return updated.Level == 4 && updated.Race == "Half-Elf" && updated.Name == "Vex"
		})).Return(current, nil).Once()

		app := newTestApp(t, mockRepo)
		rr := httptest.NewRecorder()
		level := 4
		req := withIdParam(authedRequest(http.MethodPatch, "/api/characters/5", jsonBody(t, CharacterRequest{
			Level: &level,
		}), 20), 5)
		app.updateCharacter(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "expected 200")
	})
}
