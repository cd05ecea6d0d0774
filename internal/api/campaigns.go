package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/policy"
	"github.com/campfire-rpg/campfire/internal/stats"
	"github.com/campfire-rpg/campfire/internal/types"
)

type CreateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WorldStory  string `json:"world_story"`
	IsPublic    bool   `json:"is_public"`
	MaxPlayers  int    `json:"max_players"`
}

type UpdateCampaignRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	WorldStory  *string `json:"world_story"`
	IsPublic    *bool   `json:"is_public"`
	MaxPlayers  *int    `json:"max_players"`
	IsArchived  *bool   `json:"is_archived"`
}

func idParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// campaignResponse shapes a campaign for the given viewer: the join
// code is the owner's alone, and the pending-requests count is only
// meaningful to the owner.
func campaignResponse(c database.Campaign, viewerId int) types.Campaign {
	isOwner := policy.IsOwner(c, viewerId)

	resp := types.Campaign{
		Id:           c.Id,
		Name:         c.Name,
		Description:  c.Description,
		WorldStory:   c.WorldStory,
		IsPublic:     c.IsPublic,
		MaxPlayers:   c.MaxPlayers,
		IsArchived:   c.IsArchived,
		Owner:        c.OwnerId,
		IsOwner:      isOwner,
		PlayersCount: c.PlayersCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}

	if isOwner {
		resp.JoinCode = c.JoinCode
		resp.PendingRequestsCount = c.PendingRequestsCount
	} else if c.MyRequestStatus.Valid {
		resp.MyRequestStatus = c.MyRequestStatus.String
	}

	return resp
}

func (s *CampfireApp) listCampaigns(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	campaigns, err := s.db.ListCampaigns(userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		resp = append(resp, campaignResponse(c, userId))
	}

	s.writeJson(w, http.StatusOK, resp)
}

// searchPublicCampaigns is the one unauthenticated listing: public,
// unarchived campaigns matched against the q parameter.
func (s *CampfireApp) searchPublicCampaigns(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	campaigns, err := s.db.SearchPublicCampaigns(query)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		resp = append(resp, campaignResponse(c, 0))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) createCampaign(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "name is required"
	}
	if req.MaxPlayers < 1 {
		fields["max_players"] = "max players must be at least 1"
	}
	if len(fields) > 0 {
		errResp := NewValidationError(fields)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	joinCode, err := s.generateJoinCode()
	if err != nil {
		s.writeError(w, err)
		return
	}

	campaign, err := s.db.CreateCampaign(database.CreateCampaignParams{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		WorldStory:  req.WorldStory,
		OwnerId:     userId,
		IsPublic:    req.IsPublic,
		MaxPlayers:  req.MaxPlayers,
		JoinCode:    joinCode,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.incrStat(stats.CampaignsCreated)

	s.writeJson(w, http.StatusCreated, campaignResponse(campaign, userId))
}

func (s *CampfireApp) getCampaign(w http.ResponseWriter, r *http.Request) {
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

	campaign, err := s.db.GetCampaignById(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	canView, err := s.policy.CanView(campaign, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !canView {
		// invisible rather than forbidden, same as a filtered list
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	players, err := s.db.ListCampaignPlayers(campaign.Id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := campaignResponse(campaign, userId)
	resp.PlayersCount = len(players)
	resp.Players = make([]types.CampaignPlayer, 0, len(players))
	for _, p := range players {
		resp.Players = append(resp.Players, types.CampaignPlayer{
			Id:                 p.UserId,
			Username:           p.Username,
			CharacterId:        p.CharacterId,
			CharacterName:      p.CharacterName,
			CharacterClassName: p.ClassName,
			Level:              p.Level,
		})
	}

	if policy.IsOwner(campaign, userId) {
		pending, err := s.db.ListJoinRequests(database.ListJoinRequestsParams{
			IncomingOwnerId: userId,
			CampaignId:      campaign.Id,
			Status:          database.RequestStatusPending,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp.PendingRequestsCount = len(pending)
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) updateCampaign(w http.ResponseWriter, r *http.Request) {
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

	campaign, err := s.db.GetCampaignById(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !s.policy.CanManage(campaign, userId) {
		errResp := NewForbiddenError("only the campaign owner may edit the campaign")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// An archived campaign is frozen; the only edit it accepts is
	// flipping is_archived back off.
	if campaign.IsArchived && (req.IsArchived == nil || *req.IsArchived) {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	fields := make(map[string]string)
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fields["name"] = "name is required"
	}
	if req.MaxPlayers != nil && *req.MaxPlayers < 1 {
		fields["max_players"] = "max players must be at least 1"
	}
	if len(fields) > 0 {
		errResp := NewValidationError(fields)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateCampaign(database.UpdateCampaignParams{
		CampaignId:  campaign.Id,
		Name:        req.Name,
		Description: req.Description,
		WorldStory:  req.WorldStory,
		IsPublic:    req.IsPublic,
		MaxPlayers:  req.MaxPlayers,
		IsArchived:  req.IsArchived,
	})
	if err != nil {
		if err == database.ErrMaxPlayersTooLow {
			errResp := NewValidationError(map[string]string{"max_players": "max players cannot be below the accepted player count"})
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}
		s.writeError(w, err)
		return
	}

	if req.IsArchived != nil && *req.IsArchived && !campaign.IsArchived {
		s.incrStat(stats.CampaignsArchived)
	}

	s.writeJson(w, http.StatusOK, campaignResponse(updated, userId))
}

func (s *CampfireApp) deleteCampaign(w http.ResponseWriter, r *http.Request) {
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

	campaign, err := s.db.GetCampaignById(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !s.policy.CanManage(campaign, userId) {
		errResp := NewForbiddenError("only the campaign owner may delete the campaign")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteCampaign(campaign.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *CampfireApp) listClasses(w http.ResponseWriter, _ *http.Request) {
	classes, err := s.db.ListClasses()
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.Class, 0, len(classes))
	for _, c := range classes {
		resp = append(resp, classResponse(c))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func classResponse(c database.Class) types.Class {
	resp := types.Class{Id: c.Id, Name: c.Name}
	if c.HitDie.Valid {
		hd := int(c.HitDie.Int64)
		resp.HitDie = &hd
	}
	return resp
}
