package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/membership"
	"github.com/campfire-rpg/campfire/internal/stats"
	"github.com/campfire-rpg/campfire/internal/types"
)

type CreateJoinRequestRequest struct {
	Campaign  int    `json:"campaign"`
	Code      string `json:"code"`
	Character int    `json:"character"`
}

func joinRequestResponse(r database.JoinRequest) types.JoinRequest {
	resp := types.JoinRequest{
		Id:                r.Id,
		Campaign:          r.CampaignId,
		CampaignName:      r.CampaignName,
		CampaignOwnerName: r.CampaignOwnerName,
		User:              r.UserId,
		UserName:          r.Username,
		Character:         r.CharacterId,
		CharacterName:     r.CharacterName,
		CharacterClass:    r.CharacterClass,
		Status:            r.Status,
		CreatedAt:         r.CreatedAt,
	}
	if r.DecidedAt.Valid {
		decidedAt := r.DecidedAt.Time
		resp.DecidedAt = &decidedAt
	}
	return resp
}

func (s *CampfireApp) createJoinRequest(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateJoinRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	created, err := s.members.RequestJoin(membership.JoinParams{
		UserId:      userId,
		CampaignId:  req.Campaign,
		JoinCode:    req.Code,
		CharacterId: req.Character,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.incrStat(stats.JoinRequestsCreated)

	s.writeJson(w, http.StatusCreated, joinRequestResponse(created))
}

func (s *CampfireApp) listJoinRequests(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	q := r.URL.Query()
	campaignId, _ := strconv.Atoi(q.Get("campaign"))

	requests, err := s.members.List(membership.ListParams{
		UserId:     userId,
		Scope:      q.Get("scope"),
		CampaignId: campaignId,
		Status:     q.Get("status"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.JoinRequest, 0, len(requests))
	for _, jr := range requests {
		resp = append(resp, joinRequestResponse(jr))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) approveJoinRequest(w http.ResponseWriter, r *http.Request) {
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

	accepted, swept, err := s.members.Approve(id, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.incrStat(stats.JoinRequestsDecided)
	if swept > 0 {
		s.log.Printf("campaign %d reached capacity, auto-rejected %d pending requests", accepted.CampaignId, swept)
	}

	s.writeJson(w, http.StatusOK, joinRequestResponse(accepted))
}

func (s *CampfireApp) rejectJoinRequest(w http.ResponseWriter, r *http.Request) {
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

	rejected, err := s.members.Reject(id, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.incrStat(stats.JoinRequestsDecided)

	s.writeJson(w, http.StatusOK, joinRequestResponse(rejected))
}
