package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/errs"
	"github.com/campfire-rpg/campfire/internal/policy"
	"github.com/campfire-rpg/campfire/internal/stats"
	"github.com/campfire-rpg/campfire/internal/types"
)

type CreateChatMessageRequest struct {
	Campaign int    `json:"campaign"`
	Text     string `json:"text"`
}

func chatMessageResponse(m database.ChatMessage) types.ChatMessage {
	return types.ChatMessage{
		Id:        m.Id,
		Campaign:  m.CampaignId,
		User:      m.UserId,
		UserName:  m.Username,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func (s *CampfireApp) listChatMessages(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	campaignId, err := strconv.Atoi(r.URL.Query().Get("campaign"))
	if err != nil || campaignId < 1 {
		errResp := NewValidationError(map[string]string{"campaign": "campaign query parameter is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	messages, err := s.db.ListChatMessages(userId, campaignId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.ChatMessage, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, chatMessageResponse(m))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) createChatMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		errResp := NewValidationError(map[string]string{"text": "text is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	campaign, err := s.db.GetCampaignById(req.Campaign)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, errs.NewValidation("campaign", "campaign not found"))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	canChat, err := s.policy.CanChat(campaign, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !canChat {
		errResp := NewForbiddenError("only campaign members may post chat messages")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.CreateChatMessage(campaign.Id, userId, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.incrStat(stats.ChatMessagesSent)

	s.writeJson(w, http.StatusCreated, chatMessageResponse(msg))
}

// deleteChatMessage allows the author to retract their own message and
// the campaign owner to moderate any message. Messages are otherwise
// immutable.
func (s *CampfireApp) deleteChatMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	id, err := idParam(r)
	if err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.db.GetChatMessageById(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	campaign, err := s.db.GetCampaignById(msg.CampaignId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	canView, err := s.policy.CanChat(campaign, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !canView {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if msg.UserId != userId && !policy.IsOwner(campaign, userId) {
		errResp := NewForbiddenError("only the author or the campaign owner may delete a message")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteChatMessage(msg.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
