package types

import "time"

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthResponse struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

type Campaign struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WorldStory  string `json:"world_story"`
	IsPublic    bool   `json:"is_public"`
	MaxPlayers  int    `json:"max_players"`
	IsArchived  bool   `json:"is_archived"`
	Owner       int    `json:"owner"`
	OwnerName   string `json:"owner_name,omitempty"`
	IsOwner     bool   `json:"is_owner"`

	// JoinCode is only populated for the owner.
	JoinCode string `json:"join_code,omitempty"`

	Players              []CampaignPlayer `json:"players,omitempty"`
	PlayersCount         int              `json:"players_count"`
	PendingRequestsCount int              `json:"pending_requests_count"`
	MyRequestStatus      string           `json:"my_request_status,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type CampaignPlayer struct {
	Id                 int    `json:"id"`
	Username           string `json:"username"`
	CharacterId        int    `json:"character_id"`
	CharacterName      string `json:"character_name"`
	CharacterClassName string `json:"character_class_name,omitempty"`
	Level              int    `json:"level"`
}

type JoinRequest struct {
	Id                int        `json:"id"`
	Campaign          int        `json:"campaign"`
	CampaignName      string     `json:"campaign_name,omitempty"`
	CampaignOwnerName string     `json:"campaign_owner_name,omitempty"`
	User              int        `json:"user"`
	UserName          string     `json:"user_name,omitempty"`
	Character         int        `json:"character"`
	CharacterName     string     `json:"character_name,omitempty"`
	CharacterClass    string     `json:"character_class_name,omitempty"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	DecidedAt         *time.Time `json:"decided_at,omitempty"`
}

type Class struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	HitDie *int   `json:"hit_die"`
}

type SpellSlotLevel struct {
	Total  int    `json:"total"`
	Used   int    `json:"used"`
	Spells string `json:"spells"`
}

type Character struct {
	Id               int    `json:"id"`
	Owner            int    `json:"owner"`
	Name             string `json:"name"`
	PlayerName       string `json:"player_name"`
	CharacterClass   *int   `json:"character_class"`
	ClassName        string `json:"character_class_name,omitempty"`
	Level            int    `json:"level"`
	Race             string `json:"race"`
	Background       string `json:"background"`
	Alignment        string `json:"alignment"`
	ExperiencePoints int    `json:"experience_points"`

	Strength        int `json:"strength"`
	StrengthMod     int `json:"strength_mod"`
	Dexterity       int `json:"dexterity"`
	DexterityMod    int `json:"dexterity_mod"`
	Constitution    int `json:"constitution"`
	ConstitutionMod int `json:"constitution_mod"`
	Intelligence    int `json:"intelligence"`
	IntelligenceMod int `json:"intelligence_mod"`
	Wisdom          int `json:"wisdom"`
	WisdomMod       int `json:"wisdom_mod"`
	Charisma        int `json:"charisma"`
	CharismaMod     int `json:"charisma_mod"`

	SavingThrowProficiencies []string `json:"saving_throw_proficiencies"`
	SkillProficiencies       []string `json:"skill_proficiencies"`

	MaxHitPoints       int  `json:"max_hit_points"`
	CurrentHitPoints   int  `json:"current_hit_points"`
	TemporaryHitPoints int  `json:"temporary_hit_points"`
	ArmorClass         int  `json:"armor_class"`
	Initiative         int  `json:"initiative"`
	Speed              int  `json:"speed"`
	Inspiration        bool `json:"inspiration"`
	ProficiencyBonus   int  `json:"proficiency_bonus"`
	PassivePerception  int  `json:"passive_perception"`

	HitDiceTotal       int    `json:"hit_dice_total"`
	HitDiceUsed        int    `json:"hit_dice_used"`
	HitDiceType        string `json:"hit_dice_type"`
	DeathSaveSuccesses int    `json:"death_save_successes"`
	DeathSaveFailures  int    `json:"death_save_failures"`

	Skills              string `json:"skills"`
	Equipment           string `json:"equipment"`
	Treasure            string `json:"treasure"`
	Attacks             string `json:"attacks"`
	OtherProficiencies  string `json:"other_proficiencies"`
	PersonalityTraits   string `json:"personality_traits"`
	Ideals              string `json:"ideals"`
	Bonds               string `json:"bonds"`
	Flaws               string `json:"flaws"`
	FeaturesTraits      string `json:"features_traits"`
	Appearance          string `json:"appearance"`
	Backstory           string `json:"backstory"`
	AlliesOrganizations string `json:"allies_organizations"`
	AdditionalFeatures  string `json:"additional_features"`

	SpellcastingClass   string            `json:"spellcasting_class"`
	SpellcastingAbility string            `json:"spellcasting_ability"`
	SpellSaveDC         int               `json:"spell_save_dc"`
	SpellAttackBonus    int               `json:"spell_attack_bonus"`
	SpellsCantrips      string            `json:"spells_cantrips"`
	SpellSlots          [9]SpellSlotLevel `json:"spell_slots"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Session struct {
	Id          int       `json:"id"`
	Campaign    int       `json:"campaign"`
	Number      int       `json:"number"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type DMNote struct {
	Id      int    `json:"id"`
	Session int    `json:"session"`
	Text    string `json:"text"`
}

type CampaignNote struct {
	Id        int       `json:"id"`
	Campaign  int       `json:"campaign"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Storyline struct {
	Id       int    `json:"id"`
	Campaign int    `json:"campaign"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Order    int    `json:"order"`
}

type StoryOutcome struct {
	Id          int    `json:"id"`
	Storyline   int    `json:"storyline"`
	Title       string `json:"title"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type ChatMessage struct {
	Id        int       `json:"id"`
	Campaign  int       `json:"campaign"`
	User      int       `json:"user"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
