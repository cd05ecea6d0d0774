package database

import (
	"github.com/stretchr/testify/mock"
)

type MockCampfireRepository struct {
	mock.Mock
}

func (m *MockCampfireRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockCampfireRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockCampfireRepository) UpdatePassword(userId int, passwordHash string) error {
	args := m.Called(userId, passwordHash)
	return args.Error(0)
}

func (m *MockCampfireRepository) GetAccountById(id int) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockCampfireRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockCampfireRepository) CreateCampaign(params CreateCampaignParams) (Campaign, error) {
	args := m.Called(params)
	return args.Get(0).(Campaign), args.Error(1)
}

func (m *MockCampfireRepository) GetCampaignById(id int) (Campaign, error) {
	args := m.Called(id)
	return args.Get(0).(Campaign), args.Error(1)
}

func (m *MockCampfireRepository) GetCampaignByJoinCode(code string) (Campaign, error) {
	args := m.Called(code)
	return args.Get(0).(Campaign), args.Error(1)
}

func (m *MockCampfireRepository) ListCampaigns(userId int) ([]Campaign, error) {
	args := m.Called(userId)
	return args.Get(0).([]Campaign), args.Error(1)
}

func (m *MockCampfireRepository) SearchPublicCampaigns(query string) ([]Campaign, error) {
	args := m.Called(query)
	return args.Get(0).([]Campaign), args.Error(1)
}

func (m *MockCampfireRepository) ListCampaignPlayers(campaignId int) ([]CampaignPlayer, error) {
	args := m.Called(campaignId)
	return args.Get(0).([]CampaignPlayer), args.Error(1)
}

func (m *MockCampfireRepository) UpdateCampaign(params UpdateCampaignParams) (Campaign, error) {
	args := m.Called(params)
	return args.Get(0).(Campaign), args.Error(1)
}

func (m *MockCampfireRepository) DeleteCampaign(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateJoinRequest(params CreateJoinRequestParams) (JoinRequest, error) {
	args := m.Called(params)
	return args.Get(0).(JoinRequest), args.Error(1)
}

func (m *MockCampfireRepository) AcceptJoinRequest(requestId int) (JoinRequest, int, error) {
	args := m.Called(requestId)
	return args.Get(0).(JoinRequest), args.Int(1), args.Error(2)
}

func (m *MockCampfireRepository) RejectJoinRequest(requestId int) (JoinRequest, error) {
	args := m.Called(requestId)
	return args.Get(0).(JoinRequest), args.Error(1)
}

func (m *MockCampfireRepository) GetJoinRequestById(id int) (JoinRequest, error) {
	args := m.Called(id)
	return args.Get(0).(JoinRequest), args.Error(1)
}

func (m *MockCampfireRepository) GetJoinRequestForUser(campaignId, userId int) (JoinRequest, error) {
	args := m.Called(campaignId, userId)
	return args.Get(0).(JoinRequest), args.Error(1)
}

func (m *MockCampfireRepository) HasAcceptedRequest(campaignId, userId int) (bool, error) {
	args := m.Called(campaignId, userId)
	return args.Bool(0), args.Error(1)
}

func (m *MockCampfireRepository) CountAcceptedRequests(campaignId int) (int, error) {
	args := m.Called(campaignId)
	return args.Int(0), args.Error(1)
}

func (m *MockCampfireRepository) ListJoinRequests(params ListJoinRequestsParams) ([]JoinRequest, error) {
	args := m.Called(params)
	return args.Get(0).([]JoinRequest), args.Error(1)
}

func (m *MockCampfireRepository) ListClasses() ([]Class, error) {
	args := m.Called()
	return args.Get(0).([]Class), args.Error(1)
}

func (m *MockCampfireRepository) GetClassById(id int) (Class, error) {
	args := m.Called(id)
	return args.Get(0).(Class), args.Error(1)
}

func (m *MockCampfireRepository) GetOrCreateClassByName(name string) (Class, error) {
	args := m.Called(name)
	return args.Get(0).(Class), args.Error(1)
}

func (m *MockCampfireRepository) CreateCharacter(ch Character) (Character, error) {
	args := m.Called(ch)
	return args.Get(0).(Character), args.Error(1)
}

func (m *MockCampfireRepository) GetCharacterById(id int) (Character, error) {
	args := m.Called(id)
	return args.Get(0).(Character), args.Error(1)
}

func (m *MockCampfireRepository) ListCharacters(ownerId int) ([]Character, error) {
	args := m.Called(ownerId)
	return args.Get(0).([]Character), args.Error(1)
}

func (m *MockCampfireRepository) UpdateCharacter(ch Character) (Character, error) {
	args := m.Called(ch)
	return args.Get(0).(Character), args.Error(1)
}

func (m *MockCampfireRepository) DeleteCharacter(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateSession(params CreateSessionParams) (Session, error) {
	args := m.Called(params)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockCampfireRepository) GetSessionById(id int) (Session, error) {
	args := m.Called(id)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockCampfireRepository) ListSessions(viewerId, campaignId int) ([]Session, error) {
	args := m.Called(viewerId, campaignId)
	return args.Get(0).([]Session), args.Error(1)
}

func (m *MockCampfireRepository) UpdateSession(params UpdateSessionParams) (Session, error) {
	args := m.Called(params)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockCampfireRepository) DeleteSession(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateDMNote(sessionId int, text string) (DMNote, error) {
	args := m.Called(sessionId, text)
	return args.Get(0).(DMNote), args.Error(1)
}

func (m *MockCampfireRepository) GetDMNoteById(id int) (DMNote, error) {
	args := m.Called(id)
	return args.Get(0).(DMNote), args.Error(1)
}

func (m *MockCampfireRepository) ListDMNotes(viewerId, sessionId int) ([]DMNote, error) {
	args := m.Called(viewerId, sessionId)
	return args.Get(0).([]DMNote), args.Error(1)
}

func (m *MockCampfireRepository) UpdateDMNote(id int, text string) (DMNote, error) {
	args := m.Called(id, text)
	return args.Get(0).(DMNote), args.Error(1)
}

func (m *MockCampfireRepository) DeleteDMNote(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateCampaignNote(campaignId int, text string) (CampaignNote, error) {
	args := m.Called(campaignId, text)
	return args.Get(0).(CampaignNote), args.Error(1)
}

func (m *MockCampfireRepository) GetCampaignNoteById(id int) (CampaignNote, error) {
	args := m.Called(id)
	return args.Get(0).(CampaignNote), args.Error(1)
}

func (m *MockCampfireRepository) ListCampaignNotes(viewerId, campaignId int) ([]CampaignNote, error) {
	args := m.Called(viewerId, campaignId)
	return args.Get(0).([]CampaignNote), args.Error(1)
}

func (m *MockCampfireRepository) UpdateCampaignNote(id int, text string) (CampaignNote, error) {
	args := m.Called(id, text)
	return args.Get(0).(CampaignNote), args.Error(1)
}

func (m *MockCampfireRepository) DeleteCampaignNote(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateStoryline(params CreateStorylineParams) (Storyline, error) {
	args := m.Called(params)
	return args.Get(0).(Storyline), args.Error(1)
}

func (m *MockCampfireRepository) GetStorylineById(id int) (Storyline, error) {
	args := m.Called(id)
	return args.Get(0).(Storyline), args.Error(1)
}

func (m *MockCampfireRepository) ListStorylines(viewerId, campaignId int) ([]Storyline, error) {
	args := m.Called(viewerId, campaignId)
	return args.Get(0).([]Storyline), args.Error(1)
}

func (m *MockCampfireRepository) UpdateStoryline(params UpdateStorylineParams) (Storyline, error) {
	args := m.Called(params)
	return args.Get(0).(Storyline), args.Error(1)
}

func (m *MockCampfireRepository) DeleteStoryline(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateStoryOutcome(params CreateStoryOutcomeParams) (StoryOutcome, error) {
	args := m.Called(params)
	return args.Get(0).(StoryOutcome), args.Error(1)
}

func (m *MockCampfireRepository) GetStoryOutcomeById(id int) (StoryOutcome, error) {
	args := m.Called(id)
	return args.Get(0).(StoryOutcome), args.Error(1)
}

func (m *MockCampfireRepository) ListStoryOutcomes(viewerId, storylineId int) ([]StoryOutcome, error) {
	args := m.Called(viewerId, storylineId)
	return args.Get(0).([]StoryOutcome), args.Error(1)
}

func (m *MockCampfireRepository) UpdateStoryOutcome(params UpdateStoryOutcomeParams) (StoryOutcome, error) {
	args := m.Called(params)
	return args.Get(0).(StoryOutcome), args.Error(1)
}

func (m *MockCampfireRepository) DeleteStoryOutcome(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCampfireRepository) CreateChatMessage(campaignId, userId int, text string) (ChatMessage, error) {
	args := m.Called(campaignId, userId, text)
	return args.Get(0).(ChatMessage), args.Error(1)
}

func (m *MockCampfireRepository) GetChatMessageById(id int) (ChatMessage, error) {
	args := m.Called(id)
	return args.Get(0).(ChatMessage), args.Error(1)
}

func (m *MockCampfireRepository) ListChatMessages(viewerId, campaignId int) ([]ChatMessage, error) {
	args := m.Called(viewerId, campaignId)
	return args.Get(0).([]ChatMessage), args.Error(1)
}

func (m *MockCampfireRepository) DeleteChatMessage(id int) error {
	args := m.Called(id)
	return args.Error(0)
}
