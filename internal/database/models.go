package database

import (
	"database/sql"
	"time"
)

// Join request statuses. ACCEPTED and REJECTED are terminal.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusAccepted = "ACCEPTED"
	RequestStatusRejected = "REJECTED"
)

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Campaign struct {
	Id          int
	Name        string
	Description string
	WorldStory  string
	OwnerId     int
	IsPublic    bool
	MaxPlayers  int
	JoinCode    string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Aggregates populated by list queries.
	PlayersCount         int
	PendingRequestsCount int
	MyRequestStatus      sql.NullString
}

type JoinRequest struct {
	Id          int
	CampaignId  int
	UserId      int
	CharacterId int
	Status      string
	CreatedAt   time.Time
	DecidedAt   sql.NullTime

	// Denormalized names populated by list queries.
	Username          string
	CampaignName      string
	CampaignOwnerName string
	CharacterName     string
	CharacterClass    string
}

// CampaignPlayer is an accepted member with their character, as shown
// on a campaign detail.
type CampaignPlayer struct {
	UserId        int
	Username      string
	CharacterId   int
	CharacterName string
	ClassName     string
	Level         int
}

type Class struct {
	Id     int
	Name   string
	HitDie sql.NullInt64
}

type Character struct {
	Id      int
	OwnerId int

	Name             string
	PlayerName       string
	ClassId          sql.NullInt64
	ClassName        string
	Level            int
	Race             string
	Background       string
	Alignment        string
	ExperiencePoints int

	Strength        int
	StrengthMod     int
	Dexterity       int
	DexterityMod    int
	Constitution    int
	ConstitutionMod int
	Intelligence    int
	IntelligenceMod int
	Wisdom          int
	WisdomMod       int
	Charisma        int
	CharismaMod     int

	SavingThrowProficiencies []string
	SkillProficiencies       []string

	MaxHitPoints       int
	CurrentHitPoints   int
	TemporaryHitPoints int
	ArmorClass         int
	Initiative         int
	Speed              int
	Inspiration        bool
	ProficiencyBonus   int
	PassivePerception  int

	HitDiceTotal       int
	HitDiceUsed        int
	HitDiceType        string
	DeathSaveSuccesses int
	DeathSaveFailures  int

	Skills              string
	Equipment           string
	Treasure            string
	Attacks             string
	OtherProficiencies  string
	PersonalityTraits   string
	Ideals              string
	Bonds               string
	Flaws               string
	FeaturesTraits      string
	Appearance          string
	Backstory           string
	AlliesOrganizations string
	AdditionalFeatures  string

	SpellcastingClass   string
	SpellcastingAbility string
	SpellSaveDC         int
	SpellAttackBonus    int
	SpellsCantrips      string
	SpellSlots          [9]SpellSlotLevel

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpellSlotLevel is the per-level slot bookkeeping on a sheet.
// Index 0 of Character.SpellSlots holds level 1.
type SpellSlotLevel struct {
	Total  int
	Used   int
	Spells string
}

type Session struct {
	Id          int
	CampaignId  int
	Number      int
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DMNote struct {
	Id        int
	SessionId int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CampaignNote struct {
	Id         int
	CampaignId int
	Text       string
	CreatedAt  time.Time
}

type Storyline struct {
	Id         int
	CampaignId int
	Title      string
	Summary    string
	Order      int
}

type StoryOutcome struct {
	Id          int
	StorylineId int
	Title       string
	Condition   string
	Description string
	Order       int
}

type ChatMessage struct {
	Id         int
	CampaignId int
	UserId     int
	Username   string
	Text       string
	CreatedAt  time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type UpdateAccountParams struct {
	UserId       int
	Username     string
	PasswordHash string
}

type CreateCampaignParams struct {
	Name        string
	Description string
	WorldStory  string
	OwnerId     int
	IsPublic    bool
	MaxPlayers  int
	JoinCode    string
}

// UpdateCampaignParams carries a partial update; nil fields are left
// untouched.
type UpdateCampaignParams struct {
	CampaignId  int
	Name        *string
	Description *string
	WorldStory  *string
	IsPublic    *bool
	MaxPlayers  *int
	IsArchived  *bool
}

type CreateJoinRequestParams struct {
	CampaignId  int
	UserId      int
	CharacterId int
}

// ListJoinRequestsParams filters the ledger listing. Exactly one of
// OutgoingUserId / IncomingOwnerId is set.
type ListJoinRequestsParams struct {
	OutgoingUserId  int
	IncomingOwnerId int
	CampaignId      int
	Status          string
}

type CreateSessionParams struct {
	CampaignId  int
	Number      int
	Date        time.Time
	Description string
}

type UpdateSessionParams struct {
	SessionId   int
	Number      *int
	Date        *time.Time
	Description *string
}

type CreateStorylineParams struct {
	CampaignId int
	Title      string
	Summary    string
	Order      int
}

type UpdateStorylineParams struct {
	StorylineId int
	Title       *string
	Summary     *string
	Order       *int
}

type CreateStoryOutcomeParams struct {
	StorylineId int
	Title       string
	Condition   string
	Description string
	Order       int
}

type UpdateStoryOutcomeParams struct {
	OutcomeId   int
	Title       *string
	Condition   *string
	Description *string
	Order       *int
}
