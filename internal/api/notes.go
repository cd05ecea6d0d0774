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

type CreateDMNoteRequest struct {
	Session int    `json:"session"`
	Text    string `json:"text"`
}

type CreateCampaignNoteRequest struct {
	Campaign int    `json:"campaign"`
	Text     string `json:"text"`
}

type UpdateNoteRequest struct {
	Text *string `json:"text"`
}

func dmNoteResponse(n database.DMNote) types.DMNote {
	return types.DMNote{Id: n.Id, Session: n.SessionId, Text: n.Text}
}

func campaignNoteResponse(n database.CampaignNote) types.CampaignNote {
	return types.CampaignNote{
		Id:        n.Id,
		Campaign:  n.CampaignId,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
	}
}

func (s *CampfireApp) createDMNote(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateDMNoteRequest
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

	sess, err := s.db.GetSessionById(req.Session)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, errs.NewValidation("session", "session not found"))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := s.manageableCampaign(sess.CampaignId, userId); err != nil {
		s.writeError(w, err)
		return
	}

	note, err := s.db.CreateDMNote(sess.Id, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, dmNoteResponse(note))
}

func (s *CampfireApp) listDMNotes(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	sessionId, err := strconv.Atoi(r.URL.Query().Get("session"))
	if err != nil || sessionId < 1 {
		errResp := NewValidationError(map[string]string{"session": "session query parameter is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	notes, err := s.db.ListDMNotes(userId, sessionId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.DMNote, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, dmNoteResponse(n))
	}

	s.writeJson(w, http.StatusOK, resp)
}

// ownedDMNote resolves a note through its session to the campaign and
// hides it from everyone but the owner.
func (s *CampfireApp) ownedDMNote(r *http.Request) (database.DMNote, database.Campaign, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return database.DMNote{}, database.Campaign{}, sql.ErrNoRows
	}

	id, err := idParam(r)
	if err != nil {
		return database.DMNote{}, database.Campaign{}, sql.ErrNoRows
	}

	note, err := s.db.GetDMNoteById(id)
	if err != nil {
		return database.DMNote{}, database.Campaign{}, err
	}

	sess, err := s.db.GetSessionById(note.SessionId)
	if err != nil {
		return database.DMNote{}, database.Campaign{}, err
	}

	campaign, err := s.db.GetCampaignById(sess.CampaignId)
	if err != nil {
		return database.DMNote{}, database.Campaign{}, err
	}

	if !policy.IsOwner(campaign, userId) {
		return database.DMNote{}, database.Campaign{}, sql.ErrNoRows
	}

	return note, campaign, nil
}

func (s *CampfireApp) getDMNote(w http.ResponseWriter, r *http.Request) {
	note, _, err := s.ownedDMNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, dmNoteResponse(note))
}

func (s *CampfireApp) updateDMNote(w http.ResponseWriter, r *http.Request) {
	note, campaign, err := s.ownedDMNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		errResp := NewValidationError(map[string]string{"text": "text is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateDMNote(note.Id, *req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, dmNoteResponse(updated))
}

func (s *CampfireApp) deleteDMNote(w http.ResponseWriter, r *http.Request) {
	note, campaign, err := s.ownedDMNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteDMNote(note.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *CampfireApp) createCampaignNote(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateCampaignNoteRequest
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

	campaign, err := s.manageableCampaign(req.Campaign, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	note, err := s.db.CreateCampaignNote(campaign.Id, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, campaignNoteResponse(note))
}

func (s *CampfireApp) listCampaignNotes(w http.ResponseWriter, r *http.Request) {
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

	notes, err := s.db.ListCampaignNotes(userId, campaignId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.CampaignNote, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, campaignNoteResponse(n))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) ownedCampaignNote(r *http.Request) (database.CampaignNote, database.Campaign, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return database.CampaignNote{}, database.Campaign{}, sql.ErrNoRows
	}

	id, err := idParam(r)
	if err != nil {
		return database.CampaignNote{}, database.Campaign{}, sql.ErrNoRows
	}

	note, err := s.db.GetCampaignNoteById(id)
	if err != nil {
		return database.CampaignNote{}, database.Campaign{}, err
	}

	campaign, err := s.db.GetCampaignById(note.CampaignId)
	if err != nil {
		return database.CampaignNote{}, database.Campaign{}, err
	}

	if !policy.IsOwner(campaign, userId) {
		return database.CampaignNote{}, database.Campaign{}, sql.ErrNoRows
	}

	return note, campaign, nil
}

func (s *CampfireApp) getCampaignNote(w http.ResponseWriter, r *http.Request) {
	note, _, err := s.ownedCampaignNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, campaignNoteResponse(note))
}

func (s *CampfireApp) updateCampaignNote(w http.ResponseWriter, r *http.Request) {
	note, campaign, err := s.ownedCampaignNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		errResp := NewValidationError(map[string]string{"text": "text is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateCampaignNote(note.Id, *req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, campaignNoteResponse(updated))
}

func (s *CampfireApp) deleteCampaignNote(w http.ResponseWriter, r *http.Request) {
	note, campaign, err := s.ownedCampaignNote(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteCampaignNote(note.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
