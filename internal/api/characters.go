package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/campfire-rpg/campfire/internal/database"
	"github.com/campfire-rpg/campfire/internal/errs"
	"github.com/campfire-rpg/campfire/internal/types"
)

// CharacterRequest is shared by create and PATCH: nil fields are left
// at their current value (zero values on create).
type CharacterRequest struct {
	Name               *string `json:"name"`
	PlayerName         *string `json:"player_name"`
	CharacterClass     *int    `json:"character_class"`
	CharacterClassText *string `json:"character_class_text"`
	Level              *int    `json:"level"`
	Race               *string `json:"race"`
	Background         *string `json:"background"`
	Alignment          *string `json:"alignment"`
	ExperiencePoints   *int    `json:"experience_points"`

	Strength        *int `json:"strength"`
	StrengthMod     *int `json:"strength_mod"`
	Dexterity       *int `json:"dexterity"`
	DexterityMod    *int `json:"dexterity_mod"`
	Constitution    *int `json:"constitution"`
	ConstitutionMod *int `json:"constitution_mod"`
	Intelligence    *int `json:"intelligence"`
	IntelligenceMod *int `json:"intelligence_mod"`
	Wisdom          *int `json:"wisdom"`
	WisdomMod       *int `json:"wisdom_mod"`
	Charisma        *int `json:"charisma"`
	CharismaMod     *int `json:"charisma_mod"`

	SavingThrowProficiencies *[]string `json:"saving_throw_proficiencies"`
	SkillProficiencies       *[]string `json:"skill_proficiencies"`

	MaxHitPoints       *int  `json:"max_hit_points"`
	CurrentHitPoints   *int  `json:"current_hit_points"`
	TemporaryHitPoints *int  `json:"temporary_hit_points"`
	ArmorClass         *int  `json:"armor_class"`
	Initiative         *int  `json:"initiative"`
	Speed              *int  `json:"speed"`
	Inspiration        *bool `json:"inspiration"`
	ProficiencyBonus   *int  `json:"proficiency_bonus"`
	PassivePerception  *int  `json:"passive_perception"`

	HitDiceTotal       *int    `json:"hit_dice_total"`
	HitDiceUsed        *int    `json:"hit_dice_used"`
	HitDiceType        *string `json:"hit_dice_type"`
	DeathSaveSuccesses *int    `json:"death_save_successes"`
	DeathSaveFailures  *int    `json:"death_save_failures"`

	Skills              *string `json:"skills"`
	Equipment           *string `json:"equipment"`
	Treasure            *string `json:"treasure"`
	Attacks             *string `json:"attacks"`
	OtherProficiencies  *string `json:"other_proficiencies"`
	PersonalityTraits   *string `json:"personality_traits"`
	Ideals              *string `json:"ideals"`
	Bonds               *string `json:"bonds"`
	Flaws               *string `json:"flaws"`
	FeaturesTraits      *string `json:"features_traits"`
	Appearance          *string `json:"appearance"`
	Backstory           *string `json:"backstory"`
	AlliesOrganizations *string `json:"allies_organizations"`
	AdditionalFeatures  *string `json:"additional_features"`

	SpellcastingClass   *string                  `json:"spellcasting_class"`
	SpellcastingAbility *string                  `json:"spellcasting_ability"`
	SpellSaveDC         *int                     `json:"spell_save_dc"`
	SpellAttackBonus    *int                     `json:"spell_attack_bonus"`
	SpellsCantrips      *string                  `json:"spells_cantrips"`
	SpellSlots          *[9]types.SpellSlotLevel `json:"spell_slots"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// apply merges the supplied fields into ch. Class resolution happens
// separately in resolveClass.
func (req *CharacterRequest) apply(ch *database.Character) {
	setString(&ch.Name, req.Name)
	setString(&ch.PlayerName, req.PlayerName)
	setInt(&ch.Level, req.Level)
	setString(&ch.Race, req.Race)
	setString(&ch.Background, req.Background)
	setString(&ch.Alignment, req.Alignment)
	setInt(&ch.ExperiencePoints, req.ExperiencePoints)

	setInt(&ch.Strength, req.Strength)
	setInt(&ch.StrengthMod, req.StrengthMod)
	setInt(&ch.Dexterity, req.Dexterity)
	setInt(&ch.DexterityMod, req.DexterityMod)
	setInt(&ch.Constitution, req.Constitution)
	setInt(&ch.ConstitutionMod, req.ConstitutionMod)
	setInt(&ch.Intelligence, req.Intelligence)
	setInt(&ch.IntelligenceMod, req.IntelligenceMod)
	setInt(&ch.Wisdom, req.Wisdom)
	setInt(&ch.WisdomMod, req.WisdomMod)
	setInt(&ch.Charisma, req.Charisma)
	setInt(&ch.CharismaMod, req.CharismaMod)

	if req.SavingThrowProficiencies != nil {
		ch.SavingThrowProficiencies = *req.SavingThrowProficiencies
	}
	if req.SkillProficiencies != nil {
		ch.SkillProficiencies = *req.SkillProficiencies
	}

	setInt(&ch.MaxHitPoints, req.MaxHitPoints)
	setInt(&ch.CurrentHitPoints, req.CurrentHitPoints)
	setInt(&ch.TemporaryHitPoints, req.TemporaryHitPoints)
	setInt(&ch.ArmorClass, req.ArmorClass)
	setInt(&ch.Initiative, req.Initiative)
	setInt(&ch.Speed, req.Speed)
	setBool(&ch.Inspiration, req.Inspiration)
	setInt(&ch.ProficiencyBonus, req.ProficiencyBonus)
	setInt(&ch.PassivePerception, req.PassivePerception)

	setInt(&ch.HitDiceTotal, req.HitDiceTotal)
	setInt(&ch.HitDiceUsed, req.HitDiceUsed)
	setString(&ch.HitDiceType, req.HitDiceType)
	setInt(&ch.DeathSaveSuccesses, req.DeathSaveSuccesses)
	setInt(&ch.DeathSaveFailures, req.DeathSaveFailures)

	setString(&ch.Skills, req.Skills)
	setString(&ch.Equipment, req.Equipment)
	setString(&ch.Treasure, req.Treasure)
	setString(&ch.Attacks, req.Attacks)
	setString(&ch.OtherProficiencies, req.OtherProficiencies)
	setString(&ch.PersonalityTraits, req.PersonalityTraits)
	setString(&ch.Ideals, req.Ideals)
	setString(&ch.Bonds, req.Bonds)
	setString(&ch.Flaws, req.Flaws)
	setString(&ch.FeaturesTraits, req.FeaturesTraits)
	setString(&ch.Appearance, req.Appearance)
	setString(&ch.Backstory, req.Backstory)
	setString(&ch.AlliesOrganizations, req.AlliesOrganizations)
	setString(&ch.AdditionalFeatures, req.AdditionalFeatures)

	setString(&ch.SpellcastingClass, req.SpellcastingClass)
	setString(&ch.SpellcastingAbility, req.SpellcastingAbility)
	setInt(&ch.SpellSaveDC, req.SpellSaveDC)
	setInt(&ch.SpellAttackBonus, req.SpellAttackBonus)
	setString(&ch.SpellsCantrips, req.SpellsCantrips)
	if req.SpellSlots != nil {
		for i, slot := range req.SpellSlots {
			ch.SpellSlots[i] = database.SpellSlotLevel{
				Total:  slot.Total,
				Used:   slot.Used,
				Spells: slot.Spells,
			}
		}
	}
}

// resolveClass maps the request's class reference onto ch: a class id
// when given, else get-or-create by trimmed free-text name.
func (s *CampfireApp) resolveClass(req *CharacterRequest, ch *database.Character) error {
	switch {
	case req.CharacterClass != nil:
		class, err := s.db.GetClassById(*req.CharacterClass)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NewValidation("character_class", "class not found")
		}
		if err != nil {
			return err
		}
		ch.ClassId = sql.NullInt64{Int64: int64(class.Id), Valid: true}
		ch.ClassName = class.Name
	case req.CharacterClassText != nil:
		name := strings.TrimSpace(*req.CharacterClassText)
		if name == "" {
			return errs.NewValidation("character_class_text", "class name cannot be empty")
		}
		class, err := s.db.GetOrCreateClassByName(name)
		if err != nil {
			return err
		}
		ch.ClassId = sql.NullInt64{Int64: int64(class.Id), Valid: true}
		ch.ClassName = class.Name
	}
	return nil
}

func characterResponse(ch database.Character) types.Character {
	resp := types.Character{
		Id:               ch.Id,
		Owner:            ch.OwnerId,
		Name:             ch.Name,
		PlayerName:       ch.PlayerName,
		ClassName:        ch.ClassName,
		Level:            ch.Level,
		Race:             ch.Race,
		Background:       ch.Background,
		Alignment:        ch.Alignment,
		ExperiencePoints: ch.ExperiencePoints,

		Strength:        ch.Strength,
		StrengthMod:     ch.StrengthMod,
		Dexterity:       ch.Dexterity,
		DexterityMod:    ch.DexterityMod,
		Constitution:    ch.Constitution,
		ConstitutionMod: ch.ConstitutionMod,
		Intelligence:    ch.Intelligence,
		IntelligenceMod: ch.IntelligenceMod,
		Wisdom:          ch.Wisdom,
		WisdomMod:       ch.WisdomMod,
		Charisma:        ch.Charisma,
		CharismaMod:     ch.CharismaMod,

		SavingThrowProficiencies: ch.SavingThrowProficiencies,
		SkillProficiencies:       ch.SkillProficiencies,

		MaxHitPoints:       ch.MaxHitPoints,
		CurrentHitPoints:   ch.CurrentHitPoints,
		TemporaryHitPoints: ch.TemporaryHitPoints,
		ArmorClass:         ch.ArmorClass,
		Initiative:         ch.Initiative,
		Speed:              ch.Speed,
		Inspiration:        ch.Inspiration,
		ProficiencyBonus:   ch.ProficiencyBonus,
		PassivePerception:  ch.PassivePerception,

		HitDiceTotal:       ch.HitDiceTotal,
		HitDiceUsed:        ch.HitDiceUsed,
		HitDiceType:        ch.HitDiceType,
		DeathSaveSuccesses: ch.DeathSaveSuccesses,
		DeathSaveFailures:  ch.DeathSaveFailures,

		Skills:              ch.Skills,
		Equipment:           ch.Equipment,
		Treasure:            ch.Treasure,
		Attacks:             ch.Attacks,
		OtherProficiencies:  ch.OtherProficiencies,
		PersonalityTraits:   ch.PersonalityTraits,
		Ideals:              ch.Ideals,
		Bonds:               ch.Bonds,
		Flaws:               ch.Flaws,
		FeaturesTraits:      ch.FeaturesTraits,
		Appearance:          ch.Appearance,
		Backstory:           ch.Backstory,
		AlliesOrganizations: ch.AlliesOrganizations,
		AdditionalFeatures:  ch.AdditionalFeatures,

		SpellcastingClass:   ch.SpellcastingClass,
		SpellcastingAbility: ch.SpellcastingAbility,
		SpellSaveDC:         ch.SpellSaveDC,
		SpellAttackBonus:    ch.SpellAttackBonus,
		SpellsCantrips:      ch.SpellsCantrips,

		CreatedAt: ch.CreatedAt,
		UpdatedAt: ch.UpdatedAt,
	}

	if ch.ClassId.Valid {
		classId := int(ch.ClassId.Int64)
		resp.CharacterClass = &classId
	}
	if resp.SavingThrowProficiencies == nil {
		resp.SavingThrowProficiencies = []string{}
	}
	if resp.SkillProficiencies == nil {
		resp.SkillProficiencies = []string{}
	}
	for i, slot := range ch.SpellSlots {
		resp.SpellSlots[i] = types.SpellSlotLevel{
			Total:  slot.Total,
			Used:   slot.Used,
			Spells: slot.Spells,
		}
	}

	return resp
}

func (s *CampfireApp) createCharacter(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	var req CharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	fields := make(map[string]string)
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		fields["name"] = "name is required"
	}
	if req.CharacterClass == nil && req.CharacterClassText == nil {
		fields["character_class_text"] = "a class id or class name is required"
	}
	if len(fields) > 0 {
		errResp := NewValidationError(fields)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	ch := database.Character{OwnerId: userId, Level: 1}
	req.apply(&ch)
	if err := s.resolveClass(&req, &ch); err != nil {
		s.writeError(w, err)
		return
	}

	created, err := s.db.CreateCharacter(ch)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusCreated, characterResponse(created))
}

func (s *CampfireApp) listCharacters(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	characters, err := s.db.ListCharacters(userId)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]types.Character, 0, len(characters))
	for _, ch := range characters {
		resp = append(resp, characterResponse(ch))
	}

	s.writeJson(w, http.StatusOK, resp)
}

// loadOwnCharacter fetches the sheet and hides it from anyone but its
// owner. Sheets are strictly private.
func (s *CampfireApp) loadOwnCharacter(r *http.Request) (database.Character, error) {
	userId, ok := UserId(r.Context())
	if !ok {
		return database.Character{}, sql.ErrNoRows
	}

	id, err := idParam(r)
	if err != nil {
		return database.Character{}, sql.ErrNoRows
	}

	ch, err := s.db.GetCharacterById(id)
	if err != nil {
		return database.Character{}, err
	}
	if ch.OwnerId != userId {
		return database.Character{}, sql.ErrNoRows
	}

	return ch, nil
}

func (s *CampfireApp) getCharacter(w http.ResponseWriter, r *http.Request) {
	ch, err := s.loadOwnCharacter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, characterResponse(ch))
}

func (s *CampfireApp) updateCharacter(w http.ResponseWriter, r *http.Request) {
	ch, err := s.loadOwnCharacter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req CharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errResp := NewValidationError(map[string]string{"name": "name is required"})
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	req.apply(&ch)
	if err := s.resolveClass(&req, &ch); err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.db.UpdateCharacter(ch)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, characterResponse(updated))
}

func (s *CampfireApp) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	ch, err := s.loadOwnCharacter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.db.DeleteCharacter(ch.Id); err != nil {
		s.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
