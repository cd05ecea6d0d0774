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
	"github.com/campfire-rpg/campfire/internal/types"
)

type CreateStorylineRequest struct {
	Campaign int    `json:"campaign"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Order    int    `json:"order"`
}

type UpdateStorylineRequest struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Order   *int    `json:"order"`
}

type CreateStoryOutcomeRequest struct {
	Storyline   int    `json:"storyline"`
	Title       string `json:"title"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type UpdateStoryOutcomeRequest struct {
	Title       *string `json:"title"`
	Condition   *string `json:"condition"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

func storylineResponse(sl database.Storyline) types.Storyline {
	return types.Storyline{
		Id:       sl.Id,
		Campaign: sl.CampaignId,
		Title:    sl.Title,
		Summary:  sl.Summary,
		Order:    sl.Order,
	}
}

func storyOutcomeResponse(o database.StoryOutcome) types.StoryOutcome {
	return types.StoryOutcome{
		Id:          o.Id,
		Storyline:   o.StorylineId,
		Title:       o.Title,
		Condition:   o.Condition,
		Description: o.Description,
		Order:       o.Order,
	}
}

func (s *CampfireApp) createStoryline(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateStorylineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		errResp := NewValidationError(map[string]string{"title": "title is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	campaign, err := s.manageableCampaign(req.Campaign, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sl, err := s.db.CreateStoryline(database.CreateStorylineParams{
		CampaignId: campaign.Id,
		Title:      req.Title,
		Summary:    req.Summary,
		Order:      req.Order,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, storylineResponse(sl))
}

func (s *CampfireApp) listStorylines(w http.ResponseWriter, r *http.Request) {
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

	storylines, err := s.db.ListStorylines(userId, campaignId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.Storyline, 0, len(storylines))
	for _, sl := range storylines {
		resp = append(resp, storylineResponse(sl))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) ownedStoryline(r *http.Request) (database.Storyline, database.Campaign, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return database.Storyline{}, database.Campaign{}, sql.ErrNoRows
	}

	id, err := idParam(r)
	if err != nil {
		return database.Storyline{}, database.Campaign{}, sql.ErrNoRows
	}

	sl, err := s.db.GetStorylineById(id)
	if err != nil {
		return database.Storyline{}, database.Campaign{}, err
	}

	campaign, err := s.db.GetCampaignById(sl.CampaignId)
	if err != nil {
		return database.Storyline{}, database.Campaign{}, err
	}

	if !policy.IsOwner(campaign, userId) {
		return database.Storyline{}, database.Campaign{}, sql.ErrNoRows
	}

	return sl, campaign, nil
}

func (s *CampfireApp) getStoryline(w http.ResponseWriter, r *http.Request) {
	sl, _, err := s.ownedStoryline(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, storylineResponse(sl))
}

func (s *CampfireApp) updateStoryline(w http.ResponseWriter, r *http.Request) {
	sl, campaign, err := s.ownedStoryline(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateStorylineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errResp := NewValidationError(map[string]string{"title": "title is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateStoryline(database.UpdateStorylineParams{
		StorylineId: sl.Id,
		Title:       req.Title,
		Summary:     req.Summary,
		Order:       req.Order,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, storylineResponse(updated))
}

func (s *CampfireApp) deleteStoryline(w http.ResponseWriter, r *http.Request) {
	sl, campaign, err := s.ownedStoryline(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteStoryline(sl.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *CampfireApp) createStoryOutcome(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateStoryOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		errResp := NewValidationError(map[string]string{"title": "title is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	sl, err := s.db.GetStorylineById(req.Storyline)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, errs.NewValidation("storyline", "storyline not found"))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := s.manageableCampaign(sl.CampaignId, userId); err != nil {
		s.writeError(w, err)
		return
	}

	outcome, err := s.db.CreateStoryOutcome(database.CreateStoryOutcomeParams{
		StorylineId: sl.Id,
		Title:       req.Title,
		Condition:   req.Condition,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, storyOutcomeResponse(outcome))
}

func (s *CampfireApp) listStoryOutcomes(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	storylineId, err := strconv.Atoi(r.URL.Query().Get("storyline"))
	if err != nil || storylineId < 1 {
		errResp := NewValidationError(map[string]string{"storyline": "storyline query parameter is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	outcomes, err := s.db.ListStoryOutcomes(userId, storylineId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.StoryOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		resp = append(resp, storyOutcomeResponse(o))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) ownedStoryOutcome(r *http.Request) (database.StoryOutcome, database.Campaign, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return database.StoryOutcome{}, database.Campaign{}, sql.ErrNoRows
	}

	id, err := idParam(r)
	if err != nil {
		return database.StoryOutcome{}, database.Campaign{}, sql.ErrNoRows
	}

	outcome, err := s.db.GetStoryOutcomeById(id)
	if err != nil {
		return database.StoryOutcome{}, database.Campaign{}, err
	}

	sl, err := s.db.GetStorylineById(outcome.StorylineId)
	if err != nil {
		return database.StoryOutcome{}, database.Campaign{}, err
	}

	campaign, err := s.db.GetCampaignById(sl.CampaignId)
	if err != nil {
		return database.StoryOutcome{}, database.Campaign{}, err
	}

	if !policy.IsOwner(campaign, userId) {
		return database.StoryOutcome{}, database.Campaign{}, sql.ErrNoRows
	}

	return outcome, campaign, nil
}

func (s *CampfireApp) getStoryOutcome(w http.ResponseWriter, r *http.Request) {
	outcome, _, err := s.ownedStoryOutcome(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, storyOutcomeResponse(outcome))
}

func (s *CampfireApp) updateStoryOutcome(w http.ResponseWriter, r *http.Request) {
	outcome, campaign, err := s.ownedStoryOutcome(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateStoryOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errResp := NewValidationError(map[string]string{"title": "title is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateStoryOutcome(database.UpdateStoryOutcomeParams{
		OutcomeId:   outcome.Id,
		Title:       req.Title,
		Condition:   req.Condition,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, storyOutcomeResponse(updated))
}

func (s *CampfireApp) deleteStoryOutcome(w http.ResponseWriter, r *http.Request) {
	outcome, campaign, err := s.ownedStoryOutcome(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteStoryOutcome(outcome.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
