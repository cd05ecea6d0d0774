package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/errs"
	"github.com/campfire-rpg/campfire/internal/types"
)

type CreateSessionRequest struct {
	Campaign    int       `json:"campaign"`
	Number      int       `json:"number"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type UpdateSessionRequest struct {
	Number      *int       `json:"number"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
}

// manageableCampaign loads a campaign for a child-resource mutation:
// the caller must own it and it must not be archived.
func (s *CampfireApp) manageableCampaign(campaignId, userId int) (database.Campaign, error) {
	campaign, err := s.db.GetCampaignById(campaignId)
	if errors.Is(err, sql.ErrNoRows) {
		return database.Campaign{}, errs.NewValidation("campaign", "campaign not found")
	}
	if err != nil {
		return database.Campaign{}, err
	}

	if !s.policy.CanManage(campaign, userId) {
		return database.Campaign{}, errs.NewForbidden("only the campaign owner may manage this resource")
	}
	if campaign.IsArchived {
		return database.Campaign{}, errs.NewValidation("campaign", "campaign is archived")
	}

	return campaign, nil
}

func sessionResponse(sess database.Session) types.Session {
	return types.Session{
		Id:          sess.Id,
		Campaign:    sess.CampaignId,
		Number:      sess.Number,
		Date:        sess.Date,
		Description: sess.Description,
	}
}

func (s *CampfireApp) listSessions(w http.ResponseWriter, r *http.Request) {
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

	sessions, err := s.db.ListSessions(userId, campaignId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.Session, 0, len(sessions))
	for _, sess := range sessions {
		resp = append(resp, sessionResponse(sess))
	}

	s.writeJson(w, http.StatusOK, resp)
}

func (s *CampfireApp) createSession(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	fields := make(map[string]string)
	if req.Campaign < 1 {
		fields["campaign"] = "campaign is required"
	}
	if req.Number < 1 {
		fields["number"] = "session number must be at least 1"
	}
	if req.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if len(fields) > 0 {
		errResp := NewValidationError(fields)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	campaign, err := s.manageableCampaign(req.Campaign, userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.db.CreateSession(database.CreateSessionParams{
		CampaignId:  campaign.Id,
		Number:      req.Number,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, sessionResponse(sess))
}

// visibleSession loads a session the viewer can see, owner or accepted
// member. Anyone else gets a not-found.
func (s *CampfireApp) visibleSession(r *http.Request) (database.Session, database.Campaign, int, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return database.Session{}, database.Campaign{}, 0, sql.ErrNoRows
	}

	id, err := idParam(r)
	if err != nil {
		return database.Session{}, database.Campaign{}, 0, sql.ErrNoRows
	}

	sess, err := s.db.GetSessionById(id)
	if err != nil {
		return database.Session{}, database.Campaign{}, 0, err
	}

	campaign, err := s.db.GetCampaignById(sess.CampaignId)
	if err != nil {
		return database.Session{}, database.Campaign{}, 0, err
	}

	canView, err := s.policy.CanView(campaign, userId)
	if err != nil {
		return database.Session{}, database.Campaign{}, 0, err
	}
	if !canView {
		return database.Session{}, database.Campaign{}, 0, sql.ErrNoRows
	}

	return sess, campaign, userId, nil
}

func (s *CampfireApp) getSession(w http.ResponseWriter, r *http.Request) {
	sess, _, _, err := s.visibleSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, sessionResponse(sess))
}

func (s *CampfireApp) updateSession(w http.ResponseWriter, r *http.Request) {
	sess, campaign, userId, err := s.visibleSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !s.policy.CanManage(campaign, userId) {
		errResp := NewForbiddenError("only the campaign owner may manage this resource")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Number != nil && *req.Number < 1 {
		errResp := NewValidationError(map[string]string{"number": "session number must be at least 1"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	updated, err := s.db.UpdateSession(database.UpdateSessionParams{
		SessionId:   sess.Id,
		Number:      req.Number,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, sessionResponse(updated))
}

func (s *CampfireApp) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, campaign, userId, err := s.visibleSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if !s.policy.CanManage(campaign, userId) {
		errResp := NewForbiddenError("only the campaign owner may manage this resource")
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}
	if campaign.IsArchived {
		errResp := NewValidationError(map[string]string{"campaign": "campaign is archived"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.db.DeleteSession(sess.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
