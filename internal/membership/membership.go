// Package membership owns the join-request ledger: the request →
// approve/reject state machine and the seat-capacity rules around it.
package membership

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/errs"
	"github.com/campfire-rpg/campfire/internal/policy"
)

// List scopes.
const (
	ScopeOutgoing = "outgoing"
	ScopeIncoming = "incoming"
)

type Service struct {
	repo database.CampfireRepository
}

func NewService(repo database.CampfireRepository) *Service {
	return &Service{repo: repo}
}

type JoinParams struct {
	UserId      int
	CampaignId  int
	JoinCode    string
	CharacterId int
}

// RequestJoin files a PENDING join request. The preconditions run in a
// fixed order so the caller always sees the first failure; the
// capacity and uniqueness checks are re-enforced inside the insert
// transaction, which holds the campaign row lock.
func (s *Service) RequestJoin(p JoinParams) (database.JoinRequest, error) {
	if p.CharacterId == 0 {
		return database.JoinRequest{}, errs.NewValidation("character", "character is required")
	}

	if p.CampaignId == 0 && p.JoinCode == "" {
		return database.JoinRequest{}, errs.NewValidation("campaign", "campaign or join code is required")
	}

	campaign, err := s.resolveCampaign(p.CampaignId, p.JoinCode)
	if err != nil {
		return database.JoinRequest{}, err
	}

	if campaign.IsArchived {
		return database.JoinRequest{}, errs.NewValidation("campaign", "campaign is archived")
	}

	if policy.IsOwner(campaign, p.UserId) {
		return database.JoinRequest{}, errs.NewValidation("campaign", "you already own this campaign")
	}

	if !campaign.IsPublic && p.JoinCode != campaign.JoinCode {
		return database.JoinRequest{}, errs.NewValidation("code", "invalid join code")
	}

	_, err = s.repo.GetJoinRequestForUser(campaign.Id, p.UserId)
	if err == nil {
		return database.JoinRequest{}, errs.NewValidation("campaign", "you already have a join request for this campaign")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return database.JoinRequest{}, fmt.Errorf("check existing request: %w", err)
	}

	character, err := s.repo.GetCharacterById(p.CharacterId)
	if errors.Is(err, sql.ErrNoRows) {
		return database.JoinRequest{}, errs.NewValidation("character", "character not found")
	}
	if err != nil {
		return database.JoinRequest{}, fmt.Errorf("get character: %w", err)
	}
	if character.OwnerId != p.UserId {
		return database.JoinRequest{}, errs.NewValidation("character", "character does not belong to you")
	}

	accepted, err := s.repo.CountAcceptedRequests(campaign.Id)
	if err != nil {
		return database.JoinRequest{}, fmt.Errorf("count accepted requests: %w", err)
	}
	if accepted >= campaign.MaxPlayers {
		return database.JoinRequest{}, errs.NewValidation("campaign", "campaign is full")
	}

	req, err := s.repo.CreateJoinRequest(database.CreateJoinRequestParams{
		CampaignId:  campaign.Id,
		UserId:      p.UserId,
		CharacterId: p.CharacterId,
	})
	if err != nil {
		return database.JoinRequest{}, mapLedgerError(err, "create join request")
	}

	return req, nil
}

func (s *Service) resolveCampaign(campaignId int, joinCode string) (database.Campaign, error) {
	if campaignId != 0 {
		campaign, err := s.repo.GetCampaignById(campaignId)
		if errors.Is(err, sql.ErrNoRows) {
			return database.Campaign{}, errs.NewValidation("campaign", "campaign not found")
		}
		if err != nil {
			return database.Campaign{}, fmt.Errorf("get campaign: %w", err)
		}
		return campaign, nil
	}

	campaign, err := s.repo.GetCampaignByJoinCode(joinCode)
	if errors.Is(err, sql.ErrNoRows) {
		return database.Campaign{}, errs.NewValidation("code", "invalid join code")
	}
	if err != nil {
		return database.Campaign{}, fmt.Errorf("get campaign by code: %w", err)
	}
	return campaign, nil
}

// Approve accepts a PENDING request on behalf of the campaign owner.
// When the acceptance fills the last seat, every other PENDING request
// for the campaign is rejected in the same transaction; the count of
// swept requests is returned alongside the updated request.
func (s *Service) Approve(requestId, actorId int) (database.JoinRequest, int, error) {
	req, campaign, err := s.loadForDecision(requestId, actorId)
	if err != nil {
		return database.JoinRequest{}, 0, err
	}

	if campaign.IsArchived {
		return database.JoinRequest{}, 0, errs.NewValidation("campaign", "campaign is archived")
	}
	if req.Status != database.RequestStatusPending {
		return database.JoinRequest{}, 0, errs.NewValidation("status", "request has already been decided")
	}

	accepted, swept, err := s.repo.AcceptJoinRequest(req.Id)
	if err != nil {
		return database.JoinRequest{}, 0, mapLedgerError(err, "accept join request")
	}

	return accepted, swept, nil
}

// Reject declines a PENDING request on behalf of the campaign owner.
// Rejection stays available on archived campaigns so a stale queue can
// still be cleared.
func (s *Service) Reject(requestId, actorId int) (database.JoinRequest, error) {
	req, _, err := s.loadForDecision(requestId, actorId)
	if err != nil {
		return database.JoinRequest{}, err
	}

	if req.Status != database.RequestStatusPending {
		return database.JoinRequest{}, errs.NewValidation("status", "request has already been decided")
	}

	rejected, err := s.repo.RejectJoinRequest(req.Id)
	if err != nil {
		return database.JoinRequest{}, mapLedgerError(err, "reject join request")
	}

	return rejected, nil
}

func (s *Service) loadForDecision(requestId, actorId int) (database.JoinRequest, database.Campaign, error) {
	req, err := s.repo.GetJoinRequestById(requestId)
	if errors.Is(err, sql.ErrNoRows) {
		return database.JoinRequest{}, database.Campaign{}, errs.NewNotFound("join request")
	}
	if err != nil {
		return database.JoinRequest{}, database.Campaign{}, fmt.Errorf("get join request: %w", err)
	}

	campaign, err := s.repo.GetCampaignById(req.CampaignId)
	if err != nil {
		return database.JoinRequest{}, database.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}

	if !policy.IsOwner(campaign, actorId) {
		return database.JoinRequest{}, database.Campaign{}, errs.NewForbidden("only the campaign owner may decide join requests")
	}

	return req, campaign, nil
}

type ListParams struct {
	UserId     int
	Scope      string
	CampaignId int
	Status     string
}

// List returns the caller's requests (outgoing) or the requests filed
// against campaigns the caller owns (incoming).
func (s *Service) List(p ListParams) ([]database.JoinRequest, error) {
	params := database.ListJoinRequestsParams{
		CampaignId: p.CampaignId,
	}

	switch p.Scope {
	case ScopeOutgoing, "":
		params.OutgoingUserId = p.UserId
	case ScopeIncoming:
		params.IncomingOwnerId = p.UserId
	default:
		return nil, errs.NewValidation("scope", "scope must be incoming or outgoing")
	}

	switch p.Status {
	case "", database.RequestStatusPending, database.RequestStatusAccepted, database.RequestStatusRejected:
		params.Status = p.Status
	default:
		return nil, errs.NewValidation("status", "unknown status")
	}

	return s.repo.ListJoinRequests(params)
}

// mapLedgerError folds the repository's race-window errors back into
// the same validation shapes the precondition checks produce.
func mapLedgerError(err error, op string) error {
	switch {
	case errors.Is(err, database.ErrCampaignFull):
		return errs.NewValidation("campaign", "campaign is full")
	case errors.Is(err, database.ErrDuplicateRequest):
		return errs.NewValidation("campaign", "you already have a join request for this campaign")
	case errors.Is(err, database.ErrCampaignArchived):
		return errs.NewValidation("campaign", "campaign is archived")
	case errors.Is(err, database.ErrRequestNotPending):
		return errs.NewValidation("status", "request has already been decided")
	case errors.Is(err, sql.ErrNoRows):
		return errs.NewNotFound("join request")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
