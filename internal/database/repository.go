package database

import "errors"

// Domain errors surfaced by the capacity-critical queries. Callers map
// these onto validation errors; anything else is an internal failure.
var (
	ErrCampaignFull      = errors.New("campaign has no open seats")
	ErrDuplicateRequest  = errors.New("join request already exists for this campaign and user")
	ErrRequestNotPending = errors.New("join request has already been decided")
	ErrCampaignArchived  = errors.New("campaign is archived")
	ErrMaxPlayersTooLow  = errors.New("max players below accepted player count")
	ErrDuplicateAccount  = errors.New("username or email already registered")
)

type CampfireRepository interface {
	Ping() error

	CreateAccount(params CreateAccountParams) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	UpdatePassword(userId int, passwordHash string) error
	GetAccountById(id int) (User, error)
	GetAccountByUsername(username string) (User, error)

	CreateCampaign(params CreateCampaignParams) (Campaign, error)
	GetCampaignById(id int) (Campaign, error)
	GetCampaignByJoinCode(code string) (Campaign, error)
	ListCampaigns(userId int) ([]Campaign, error)
	SearchPublicCampaigns(query string) ([]Campaign, error)
	ListCampaignPlayers(campaignId int) ([]CampaignPlayer, error)
	UpdateCampaign(params UpdateCampaignParams) (Campaign, error)
	DeleteCampaign(id int) error

	CreateJoinRequest(params CreateJoinRequestParams) (JoinRequest, error)
	AcceptJoinRequest(requestId int) (JoinRequest, int, error)
	RejectJoinRequest(requestId int) (JoinRequest, error)
	GetJoinRequestById(id int) (JoinRequest, error)
	GetJoinRequestForUser(campaignId, userId int) (JoinRequest, error)
	HasAcceptedRequest(campaignId, userId int) (bool, error)
	CountAcceptedRequests(campaignId int) (int, error)
	ListJoinRequests(params ListJoinRequestsParams) ([]JoinRequest, error)

	ListClasses() ([]Class, error)
	GetClassById(id int) (Class, error)
	GetOrCreateClassByName(name string) (Class, error)

	CreateCharacter(ch Character) (Character, error)
	GetCharacterById(id int) (Character, error)
	ListCharacters(ownerId int) ([]Character, error)
	UpdateCharacter(ch Character) (Character, error)
	DeleteCharacter(id int) error

	CreateSession(params CreateSessionParams) (Session, error)
	GetSessionById(id int) (Session, error)
	ListSessions(viewerId, campaignId int) ([]Session, error)
	UpdateSession(params UpdateSessionParams) (Session, error)
	DeleteSession(id int) error

	CreateDMNote(sessionId int, text string) (DMNote, error)
	GetDMNoteById(id int) (DMNote, error)
	ListDMNotes(viewerId, sessionId int) ([]DMNote, error)
	UpdateDMNote(id int, text string) (DMNote, error)
	DeleteDMNote(id int) error

	CreateCampaignNote(campaignId int, text string) (CampaignNote, error)
	GetCampaignNoteById(id int) (CampaignNote, error)
	ListCampaignNotes(viewerId, campaignId int) ([]CampaignNote, error)
	UpdateCampaignNote(id int, text string) (CampaignNote, error)
	DeleteCampaignNote(id int) error

	CreateStoryline(params CreateStorylineParams) (Storyline, error)
	GetStorylineById(id int) (Storyline, error)
	ListStorylines(viewerId, campaignId int) ([]Storyline, error)
	UpdateStoryline(params UpdateStorylineParams) (Storyline, error)
	DeleteStoryline(id int) error

	CreateStoryOutcome(params CreateStoryOutcomeParams) (StoryOutcome, error)
	GetStoryOutcomeById(id int) (StoryOutcome, error)
	ListStoryOutcomes(viewerId, storylineId int) ([]StoryOutcome, error)
	UpdateStoryOutcome(params UpdateStoryOutcomeParams) (StoryOutcome, error)
	DeleteStoryOutcome(id int) error

	CreateChatMessage(campaignId, userId int, text string) (ChatMessage, error)
	GetChatMessageById(id int) (ChatMessage, error)
	ListChatMessages(viewerId, campaignId int) ([]ChatMessage, error)
	DeleteChatMessage(id int) error
}
